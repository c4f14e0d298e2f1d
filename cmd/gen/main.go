package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"annexval/internal/testkit"
)

func main() {
	rulesOut := flag.String("rules-out", "demo_rules.xlsx", "rules workbook output path")
	dataOut := flag.String("data-out", "demo_dataset.xlsx", "dataset workbook output path")
	rows := flag.Int("rows", 50, "number of dataset rows")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	start := flag.String("start", "2024-01-01", "earliest report date (YYYY-MM-DD)")
	flag.Parse()

	if *rows <= 0 {
		fmt.Fprintln(os.Stderr, "rows must be > 0")
		os.Exit(2)
	}

	startDate, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start (expected YYYY-MM-DD):", err)
		os.Exit(2)
	}

	cfg := testkit.DefaultWorkbookConfig()
	cfg.Rows = *rows
	cfg.Seed = *seed
	cfg.StartDate = startDate
	cfg.EndDate = startDate.AddDate(0, 3, 0)

	generator := testkit.NewWorkbookGenerator(cfg)

	rulesBytes, err := generator.RulesWorkbook()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating rules workbook:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*rulesOut, rulesBytes, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "error writing rules workbook:", err)
		os.Exit(1)
	}

	dataBytes, err := generator.DatasetWorkbook()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset workbook:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*dataOut, dataBytes, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "error writing dataset workbook:", err)
		os.Exit(1)
	}

	fmt.Printf("Demo workbooks created: %s, %s\n", *rulesOut, *dataOut)
	fmt.Printf("Total Columns: %d | Total Rows: %d\n", len(testkit.DatasetHeaders()), cfg.Rows)
	fmt.Println("Try: annexval validate --rules", *rulesOut, "--input", *dataOut, "--rules-sheet Rules --states-sheet States")
}
