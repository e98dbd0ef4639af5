package main

import (
	"fmt"
	"os"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/report"
)

var listSince string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed files and their descriptions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSince, "since", "", `only files described after this time ("yesterday", "3 days ago", 2026-01-02)`)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	var since time.Time
	if listSince != "" {
		t, ok := parseSince(listSince, time.Now())
		if !ok {
			return fmt.Errorf("cannot parse --since %q", listSince)
		}
		since = t
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(since)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no indexed files")
		return nil
	}
	return report.NewTextReporter(os.Stdout).Report(entries)
}

// parseSince accepts a few fixed date layouts and natural language
// ("yesterday", "last week"). Fixed layouts are tried first since the
// natural-language rules also match fragments like "01/02".
func parseSince(s string, now time.Time) (time.Time, bool) {
	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, now.Location()); err == nil {
			return t, true
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(s, now)
	if err == nil && result != nil {
		return result.Time, true
	}
	return time.Time{}, false
}
