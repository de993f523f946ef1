package synthesize

import (
	"context"
	"encoding/json"

	"marketscout/internal/core"
	"marketscout/internal/llm"
	"marketscout/internal/logger"
)

// TextGenerator is the language-model call the synthesizer depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts llm.Options) (string, error)
}

// Synthesizer turns a processed corpus into structured market-intelligence
// insights. The language model proposes trends, risks and recommendations;
// confidence scoring is computed deterministically from the corpus, and any
// model or parse failure degrades to a fully deterministic result. Synthesize
// is total: it never returns an error.
type Synthesizer struct {
	llm         TextGenerator
	temperature float32
	maxTokens   int32
}

// New creates a Synthesizer. A nil generator is allowed and forces the
// fallback path on every call.
func New(generator TextGenerator) *Synthesizer {
	return &Synthesizer{
		llm:         generator,
		temperature: 0.4,
		maxTokens:   2048,
	}
}

// analysisPayload is the JSON shape requested from the model. MarketDynamics
// is part of the requested schema but carries no dedicated output field; it
// is folded into the summary when the model omits one.
type analysisPayload struct {
	KeyTrends            []string `json:"key_trends"`
	MarketOpportunities  []string `json:"market_opportunities"`
	RiskFactors          []string `json:"risk_factors"`
	Recommendations      []string `json:"recommendations"`
	CompetitiveLandscape struct {
		MajorPlayers          []string `json:"major_players"`
		MarketPosition        string   `json:"market_position"`
		CompetitiveAdvantages []string `json:"competitive_advantages"`
		MarketConcentration   string   `json:"market_concentration"`
	} `json:"competitive_landscape"`
	MarketDynamics string `json:"market_dynamics"`
	Summary        string `json:"summary"`
}

// Synthesize produces the AnalysisResult for a corpus. Model failures are
// logged and downgrade to the deterministic fallback; they never propagate.
func (s *Synthesizer) Synthesize(ctx context.Context, corpus core.ProcessedCorpus, query string) core.AnalysisResult {
	result := s.synthesizeWithModel(ctx, corpus, query)

	meta := buildMetadata(corpus)
	result.DataConfidence = confidenceLevel(confidencePoints(corpus))
	result.AnalysisMetadata = meta
	return result
}

func (s *Synthesizer) synthesizeWithModel(ctx context.Context, corpus core.ProcessedCorpus, query string) core.AnalysisResult {
	if s.llm == nil {
		logger.Debug("no language model configured, using fallback analysis", "query", query)
		return Fallback(corpus, query)
	}

	raw, err := s.llm.GenerateText(ctx, buildPrompt(corpus, query), llm.Options{
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		logger.Warn("trend synthesis degraded to fallback", "query", query, "reason", err.Error())
		return Fallback(corpus, query)
	}

	jsonStr, ok := llm.ExtractJSON(raw)
	if !ok {
		logger.Warn("trend synthesis degraded to fallback", "query", query, "reason", "no JSON in model output")
		return Fallback(corpus, query)
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		logger.Warn("trend synthesis degraded to fallback", "query", query, "reason", err.Error())
		return Fallback(corpus, query)
	}

	return repair(payload, corpus, query)
}

// repair fills any list or field the model left empty from the deterministic
// fallback, so downstream consumers never see a partial result.
func repair(payload analysisPayload, corpus core.ProcessedCorpus, query string) core.AnalysisResult {
	fallback := Fallback(corpus, query)

	result := core.AnalysisResult{
		KeyTrends:           payload.KeyTrends,
		MarketOpportunities: payload.MarketOpportunities,
		RiskFactors:         payload.RiskFactors,
		Recommendations:     payload.Recommendations,
		CompetitiveLandscape: core.CompetitiveLandscape{
			MajorPlayers:          payload.CompetitiveLandscape.MajorPlayers,
			MarketPosition:        payload.CompetitiveLandscape.MarketPosition,
			CompetitiveAdvantages: payload.CompetitiveLandscape.CompetitiveAdvantages,
			MarketConcentration:   payload.CompetitiveLandscape.MarketConcentration,
		},
		Summary: payload.Summary,
	}

	if len(result.KeyTrends) == 0 {
		result.KeyTrends = fallback.KeyTrends
	}
	if len(result.MarketOpportunities) == 0 {
		result.MarketOpportunities = fallback.MarketOpportunities
	}
	if len(result.RiskFactors) == 0 {
		result.RiskFactors = fallback.RiskFactors
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = fallback.Recommendations
	}
	if len(result.CompetitiveLandscape.MajorPlayers) == 0 {
		result.CompetitiveLandscape.MajorPlayers = fallback.CompetitiveLandscape.MajorPlayers
	}
	if result.CompetitiveLandscape.MarketPosition == "" {
		result.CompetitiveLandscape.MarketPosition = fallback.CompetitiveLandscape.MarketPosition
	}
	if len(result.CompetitiveLandscape.CompetitiveAdvantages) == 0 {
		result.CompetitiveLandscape.CompetitiveAdvantages = fallback.CompetitiveLandscape.CompetitiveAdvantages
	}
	if result.CompetitiveLandscape.MarketConcentration == "" {
		result.CompetitiveLandscape.MarketConcentration = fallback.CompetitiveLandscape.MarketConcentration
	}
	if result.Summary == "" {
		if payload.MarketDynamics != "" {
			result.Summary = payload.MarketDynamics
		} else {
			result.Summary = fallback.Summary
		}
	}
	return result
}
