// saxsdebye computes a theoretical SAXS intensity profile from a PDB
// structure via the Debye transform.
//
// Usage: saxsdebye structure.pdb > profile.dat
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sarat-asymmetrica/saxskit/internal/config"
	"github.com/sarat-asymmetrica/saxskit/internal/pipeline"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: saxsdebye structure.pdb")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "saxsdebye: %v\n", err)
		os.Exit(1)
	}
}

func run(pdbPath string) error {
	f, err := os.Open(pdbPath)
	if err != nil {
		return fmt.Errorf("opening structure file: %w", err)
	}
	defer f.Close()

	atoms, waters, err := structure.ReadPDB(f)
	if err != nil {
		return fmt.Errorf("parsing PDB file: %w", err)
	}

	cfg := config.DefaultConfig()
	bc := pipeline.DefaultBuildConfig(cfg)
	bc.Verbose = true

	result, err := pipeline.Run(context.Background(), atoms, waters, bc)
	if err != nil {
		return fmt.Errorf("computing intensity profile: %w", err)
	}

	for i, q := range result.Profile.Q {
		fmt.Printf("%.6g\t%.6g\n", q, result.Profile.Total[i])
	}
	return nil
}
