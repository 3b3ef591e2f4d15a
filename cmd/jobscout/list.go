package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored postings",
	Long:  "Reads the posting collection and prints a table of all postings in collection order.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(debug)
	st, closeStore, err := buildStore(cfg, false, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	postings, err := st.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load postings: %v\n", err)
		closeStore()
		os.Exit(1)
	}

	printPostings(os.Stdout, postings)
	return nil
}

func printPostings(w io.Writer, postings []model.Posting) {
	fmt.Fprintf(w, "%-24s %-40s %-18s %-20s %s\n", "Company", "Title", "Location", "Salary", "First Seen")
	fmt.Fprintln(w, strings.Repeat("─", 118))

	withSalary := 0
	for _, p := range postings {
		salary := "-"
		if p.SalaryNormalized != nil {
			withSalary++
			salary = fmt.Sprintf("%d-%d", p.SalaryNormalized.Min, p.SalaryNormalized.Max)
		}
		fmt.Fprintf(w, "%-24s %-40s %-18s %-20s %s\n",
			truncate(p.Company, 24),
			truncate(p.Title, 40),
			truncate(p.Location, 18),
			salary,
			p.CreatedAt.UTC().Format("2006-01-02"),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d postings (%d with salary)\n", len(postings), withSalary)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// discardLogger keeps log output from corrupting TUI rendering.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
