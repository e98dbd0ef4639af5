package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/describe"
)

var (
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show the provider selection order and which one is active",
	Args:  cobra.NoArgs,
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	fmt.Print(providersReport(cfg.Env(), describe.DefaultRegistrations))
	return nil
}

// providersReport lists registrations in priority order. Key values are
// never printed, only whether they are set.
func providersReport(env describe.Env, regs []describe.Registration) string {
	active, found := describe.Select(env, regs)

	out := fmt.Sprintf("%s=%q\n", describe.EnvEnabled, env(describe.EnvEnabled))
	for i, reg := range regs {
		state := dimStyle.Render("not set")
		if env(reg.KeyVar) != "" {
			state = "set"
		}
		line := fmt.Sprintf("%d. %-10s %-18s %s", i+1, reg.Name, reg.KeyVar, state)
		if found && reg.Name == active.Name {
			line += "  " + activeStyle.Render("active")
		}
		out += line + "\n"
	}
	if !found {
		out += dimStyle.Render("no provider key set: descriptions fall back to "+describe.Unknown) + "\n"
	}
	return out
}
