package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/vibeshift/grounding"
)

func seedCmd(configPath, logLevel *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the grounding store with guidelines",
		Long: `Seed the configured grounding store with the built-in platform and
tone guidelines, plus any guideline files found under --dir.
Requires grounding.nats_url to be set; the in-memory store does not
outlive the process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(*configPath, *logLevel, dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory of guideline files to ingest")

	return cmd
}

func runSeed(configPath, logLevel, dir string) error {
	logger := setupLogging(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Grounding.NATSURL == "" {
		return fmt.Errorf("seed requires grounding.nats_url: the in-memory store does not persist")
	}

	ctx := context.Background()
	store, nc, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer nc.Close()

	count, err := grounding.SeedDefaults(ctx, store)
	if err != nil {
		return fmt.Errorf("seed default guidelines: %w", err)
	}
	fmt.Printf("Seeded %d default guidelines\n", count)

	if dir == "" {
		dir = cfg.Grounding.SeedDir
	}
	if dir != "" {
		ingester := grounding.NewIngester(logger)
		ingested, err := ingester.IngestDir(ctx, store, dir, grounding.DefaultGlob)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", dir, err)
		}
		fmt.Printf("Ingested %d guideline files from %s\n", ingested, dir)
	}

	return nil
}
