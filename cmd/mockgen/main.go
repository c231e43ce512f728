package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"rollplan-mcp/cmd/mockgen/engine"
)

func main() {
	start := flag.String("start", "", "First campaign day (YYYY-MM-DD, default today)")
	days := flag.Int("days", 35, "Number of days of campaigns and forecasts")
	seed := flag.Int64("seed", 42, "Random seed for demand noise")
	outDir := flag.String("out", "./.cache", "Output directory for the snapshot")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Days: *days,
		Seed: *seed,
	}
	if *start != "" {
		t, err := time.Parse("2006-01-02", *start)
		if err != nil {
			fmt.Printf("Invalid --start date: %v\n", err)
			os.Exit(1)
		}
		cfg.Start = t
	}

	fmt.Printf("Generating demo network (%d days, seed %d) to %s...\n", cfg.Days, cfg.Seed, *outDir)

	snap := engine.Generate(cfg)

	path, err := engine.Save(*outDir, snap)
	if err != nil {
		fmt.Printf("Failed to save snapshot: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. Wrote %s\n", path)
}
