package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print the stored description of one indexed file",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	entry, found, err := st.Get(args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s is not indexed", args[0])
	}
	fmt.Println(report.FormatEntry(entry))
	if entry.RunID != "" {
		fmt.Printf("  run %s\n", entry.RunID)
	}
	return nil
}
