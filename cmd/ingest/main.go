// Command ingest runs the spreadsheet heuristics against a local file
// and prints the detected mappings, boundaries and line items as JSON.
// Useful for tuning the keyword vocabulary against real bank exports.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"drawdock/adapters/excel"
	"drawdock/domain/ingest"
	heuristics "drawdock/internal/ingest"
)

func main() {
	importType := flag.String("type", string(ingest.ImportBudget), "import type: budget or draw")
	vocabFile := flag.String("vocab", "", "optional YAML vocabulary override")
	showRows := flag.Bool("rows", false, "include per-row signals and labels")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("Usage: ingest [flags] <spreadsheet.xlsx|.csv>")
	}
	path := flag.Arg(0)

	engine := heuristics.NewEngine()
	if *vocabFile != "" {
		vocab, err := heuristics.LoadVocabulary(*vocabFile)
		if err != nil {
			log.Fatalf("Failed to load vocabulary: %v", err)
		}
		engine = heuristics.NewEngineWithConfig(heuristics.DefaultConfig(), vocab)
	}

	grid, styles, err := excel.NewDataReader(path).ReadSheet()
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	mappings := engine.DetectColumnMappings(grid.Headers, grid.Rows)
	boundary, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, mappings, styles)
	if err != nil {
		log.Fatalf("Boundary detection failed: %v", err)
	}
	items, stats, err := engine.PackageExtraction(grid, mappings, boundary.Range(), ingest.ImportType(*importType))
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	out := map[string]interface{}{
		"mappings":   mappings,
		"row_range":  boundary.Range(),
		"confidence": boundary.Confidence,
		"line_items": items,
		"stats":      stats,
	}
	if *showRows {
		out["rows"] = boundary.Analysis
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}
