package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/llm"
	"github.com/c360studio/vibeshift/model"
	"github.com/c360studio/vibeshift/platform"
	"github.com/c360studio/vibeshift/rank"
	"github.com/c360studio/vibeshift/rewrite"
)

func rewriteCmd(configPath, logLevel *string) *cobra.Command {
	var (
		platformName string
		targetTone   string
		topN         int
	)

	cmd := &cobra.Command{
		Use:   "rewrite [message]",
		Short: "Rewrite a message from the command line",
		Long: `Rewrite a message into the five vibes and print the result as JSON.
With --tone, the candidates are ranked for that tone and only the top
results are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(*configPath, *logLevel, args[0], platformName, targetTone, topN)
		},
	}

	cmd.Flags().StringVarP(&platformName, "platform", "p", "", "Target platform (whatsapp, linkedin, email, twitter, sms)")
	cmd.Flags().StringVarP(&targetTone, "tone", "t", "", "Target tone for ranking")
	cmd.Flags().IntVarP(&topN, "top", "n", rank.DefaultTopN, "Number of ranked results with --tone")

	return cmd
}

func runRewrite(configPath, logLevel, message, platformName, targetTone string, topN int) error {
	logger := setupLogging(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()

	registry := model.NewDefaultRegistry()
	if err := cfg.ApplyToRegistry(registry); err != nil {
		return fmt.Errorf("apply model config: %w", err)
	}
	client := llm.NewClient(registry,
		llm.WithTimeout(cfg.Model.Timeout),
		llm.WithLogger(logger),
	)

	store := grounding.NewMemoryStore()
	if _, err := grounding.SeedDefaults(ctx, store); err != nil {
		logger.Warn("Failed to seed default guidelines", "error", err)
	}
	groundingClient := grounding.NewClient(store, grounding.WithLogger(logger))

	var tiers []rewrite.Tier
	for _, endpoint := range registry.GetFallbackChain(model.CapabilityRewrite) {
		tiers = append(tiers, rewrite.NewProviderTier(endpoint, client, endpoint, cfg.Model.Temperature))
	}
	generator := rewrite.NewGenerator(tiers,
		rewrite.WithGrounding(groundingClient),
		rewrite.WithTopK(cfg.Grounding.TopK),
		rewrite.WithRules(platform.NewStaticRules(cfg.Platforms)),
		rewrite.WithGeneratorLogger(logger),
	)

	candidates := generator.Generate(ctx, message, platformName, "")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if targetTone == "" {
		return enc.Encode(candidates)
	}

	ranker := rank.NewRanker(client, registry.GetFallbackChain(model.CapabilityJudge), rank.WithLogger(logger))
	top := ranker.Rank(ctx, candidates, message, targetTone, platformName, topN)
	return enc.Encode(top)
}
