package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/krishpranav/nexa/internal/config"
	"github.com/krishpranav/nexa/internal/errors"
)

// buildManifest is written into the output directory as a record of the
// build; deploy uploads it along with every other file there.
type buildManifest struct {
	Name    string    `json:"name"`
	Version string    `json:"version"`
	BuiltAt time.Time `json:"built_at"`
	Files   []string  `json:"files"`
}

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project for deployment",
		Long: `Create the configured output directory if needed and write a build
manifest (manifest.json) listing the top-level files already in it.
No assets are copied or compiled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return err
			}

			out := filepath.Join(cwd, cfg.Build.Output)
			if err := os.MkdirAll(out, 0o755); err != nil {
				return errors.New("E300").Wrap(err)
			}

			manifest := buildManifest{
				Name:    cfg.Name,
				Version: cfg.Version,
				BuiltAt: time.Now().UTC(),
			}
			entries, err := os.ReadDir(out)
			if err != nil {
				return errors.New("E300").Wrap(err)
			}
			for _, entry := range entries {
				if !entry.IsDir() && entry.Name() != "manifest.json" {
					manifest.Files = append(manifest.Files, entry.Name())
				}
			}

			data, err := json.MarshalIndent(manifest, "", "  ")
			if err != nil {
				return errors.New("E300").Wrap(err)
			}
			if err := os.WriteFile(filepath.Join(out, "manifest.json"), append(data, '\n'), 0o644); err != nil {
				return errors.New("E300").Wrap(err)
			}

			fmt.Printf("  built %d file(s) into %s\n", len(manifest.Files), cfg.Build.Output)
			return nil
		},
	}
	return cmd
}
