package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"marketscout/internal/analyze"
	"marketscout/internal/config"
	"marketscout/internal/gather"
	"marketscout/internal/llm"
	"marketscout/internal/logger"
	"marketscout/internal/pipeline"
	"marketscout/internal/planner"
	"marketscout/internal/search"
	"marketscout/internal/synthesize"
)

// NewResearchCmd creates the research command
func NewResearchCmd() *cobra.Command {
	researchCmd := &cobra.Command{
		Use:   "research [query]",
		Short: "Run the full research pipeline for a query",
		Long: `Plan searches, gather sources, and synthesize market intelligence.

Examples:
  marketscout research "EV battery market"
  marketscout research "renewable energy trends" --format json
  marketscout research "AI coding tools" --timeout 5m`,
		Args: cobra.ExactArgs(1),
		RunE: researchRunFunc,
	}

	researchCmd.Flags().String("format", "markdown", "Output format: markdown, json")
	researchCmd.Flags().Duration("timeout", 3*time.Minute, "Overall deadline for the run")

	return researchCmd
}

func researchRunFunc(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	format, _ := cmd.Flags().GetString("format")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := config.Get()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	runner, cleanup, err := buildRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	outcome, err := runner.Run(ctx, query)
	if err != nil {
		return fmt.Errorf("research run failed: %w", err)
	}

	switch format {
	case "json":
		return renderJSON(outcome)
	default:
		renderMarkdown(outcome)
		return nil
	}
}

// buildRunner wires the pipeline stages from config. A missing language-model
// key degrades planning and synthesis to their deterministic fallbacks; a
// missing search key is fatal.
func buildRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, func(), error) {
	provider, err := search.NewTavilyProvider(cfg.Search.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("search provider: %w (set TAVILY_API_KEY)", err)
	}
	if cfg.Search.BaseURL != "" {
		provider.SetBaseURL(cfg.Search.BaseURL)
	}

	cleanup := func() {}
	var generator planner.TextGenerator
	client, err := llm.NewClient(ctx, cfg.AI.Gemini.Model)
	if err != nil {
		logger.Warn("language model unavailable, deterministic fallbacks will be used", "reason", err.Error())
	} else {
		generator = client
		cleanup = func() {
			if err := client.Close(); err != nil {
				logger.Warn("closing language model client", "reason", err.Error())
			}
		}
	}

	gatherer := gather.New(provider)
	gatherer.SetPacing(
		time.Duration(cfg.Pipeline.PrimaryDelayMillis)*time.Millisecond,
		time.Duration(cfg.Pipeline.SecondaryDelayMs)*time.Millisecond)

	var synthGenerator synthesize.TextGenerator
	if generator != nil {
		synthGenerator = client
	}

	runner := pipeline.NewRunner(
		planner.New(generator),
		gatherer,
		analyze.New(),
		synthesize.New(synthGenerator),
		cfg.Pipeline.MaxConcurrentRuns)
	return runner, cleanup, nil
}

func renderJSON(outcome *pipeline.Outcome) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

func renderMarkdown(outcome *pipeline.Outcome) {
	analysis := outcome.Analysis
	corpus := outcome.Corpus
	meta := analysis.AnalysisMetadata

	fmt.Printf("# Market Research: %s\n\n", outcome.Query)
	fmt.Printf("Run %s finished in %s. %d sources analyzed, data confidence **%s**.\n\n",
		outcome.RunID, outcome.Duration.Round(time.Millisecond), corpus.TotalSources, analysis.DataConfidence)

	fmt.Printf("## Summary\n\n%s\n\n", analysis.Summary)

	printList("## Key Trends", analysis.KeyTrends)
	printList("## Opportunities", analysis.MarketOpportunities)
	printList("## Risks", analysis.RiskFactors)
	printList("## Recommendations", analysis.Recommendations)

	landscape := analysis.CompetitiveLandscape
	fmt.Printf("## Competitive Landscape\n\n")
	if len(landscape.MajorPlayers) > 0 {
		fmt.Printf("Major players: %s\n\n", strings.Join(landscape.MajorPlayers, ", "))
	}
	if landscape.MarketPosition != "" {
		fmt.Printf("%s\n\n", landscape.MarketPosition)
	}
	fmt.Printf("Market concentration: %s\n\n", landscape.MarketConcentration)

	fmt.Printf("## Data Quality\n\n")
	fmt.Printf("- Quality score: %.2f\n", meta.QualityScore)
	fmt.Printf("- Reliability: %.2f\n", meta.ReliabilityScore)
	fmt.Printf("- Recency: %.2f\n", meta.RecencyScore)
	fmt.Printf("- Diversity: %.2f\n", meta.DiversityScore)
	fmt.Printf("- Sentiment: %s (%.2f)\n", corpus.Sentiment.OverallSentiment, meta.SentimentScore)
	for _, factor := range meta.ConfidenceFactors {
		fmt.Printf("- %s\n", factor)
	}
	fmt.Println()

	if len(corpus.KeyContent) > 0 {
		fmt.Printf("## Top Sources\n\n")
		for _, snippet := range corpus.KeyContent {
			fmt.Printf("- [%s](%s)\n", snippet.Title, snippet.URL)
		}
	}
}

func printList(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s\n\n", heading)
	for _, item := range items {
		fmt.Printf("- %s\n", item)
	}
	fmt.Println()
}
