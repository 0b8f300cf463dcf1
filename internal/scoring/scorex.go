package scoring

import (
	"context"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/domain"
)

// HolderSource reports the top-10 holder share of a token in percent.
type HolderSource interface {
	Top10HolderShare(ctx context.Context, token string) (float64, error)
}

// ScoreXConfig holds the confidence stage parameters.
type ScoreXConfig struct {
	MaxTop10Share        float64 // percent; above it the penalty applies
	ConcentrationPenalty int
	ConfidenceMin        int // [ConfidenceMin, HighConfidenceMin) -> Confidence
	HighConfidenceMin    int // >= HighConfidenceMin -> HighConfidence
}

// DefaultScoreXConfig returns the default confidence parameters.
func DefaultScoreXConfig() ScoreXConfig {
	return ScoreXConfig{
		MaxTop10Share:        30,
		ConcentrationPenalty: 20,
		ConfidenceMin:        70,
		HighConfidenceMin:    85,
	}
}

// ScoreX derives the confidence score from MQS and holder concentration.
type ScoreX struct {
	holders HolderSource
	cfg     ScoreXConfig
	policy  domain.ErrorPolicy
	log     zerolog.Logger
}

// NewScoreX creates a ScoreX stage. The holder check fails open.
func NewScoreX(holders HolderSource, cfg ScoreXConfig, log zerolog.Logger) *ScoreX {
	return &ScoreX{
		holders: holders,
		cfg:     cfg,
		policy:  domain.FailOpen,
		log:     log,
	}
}

// Evaluate returns the clamped confidence score and its category.
func (s *ScoreX) Evaluate(ctx context.Context, token string, mqs int) (int, domain.Category) {
	confidence := mqs
	if s.concentrated(ctx, token) {
		confidence -= s.cfg.ConcentrationPenalty
	}

	confidence = Clamp(confidence, 0, 100)
	category := Categorize(confidence, s.cfg)

	s.log.Info().
		Str("token", token).
		Int("mqs", mqs).
		Int("confidence", confidence).
		Str("category", category.String()).
		Msg("scorex evaluated")

	return confidence, category
}

// concentrated reports whether the top-10 share exceeds the ceiling.
func (s *ScoreX) concentrated(ctx context.Context, token string) bool {
	share, err := s.holders.Top10HolderShare(ctx, token)
	if err != nil {
		s.log.Warn().Err(err).Str("token", token).Str("policy", s.policy.String()).Msg("holder check unavailable")
		return !s.policy.PassOnError()
	}

	if share > s.cfg.MaxTop10Share {
		s.log.Warn().Str("token", token).Float64("top10_pct", share).Msg("holder concentration high")
		return true
	}
	return false
}

// Categorize maps a confidence score to its trade category.
func Categorize(confidence int, cfg ScoreXConfig) domain.Category {
	switch {
	case confidence >= cfg.HighConfidenceMin:
		return domain.CategoryHighConfidence
	case confidence >= cfg.ConfidenceMin:
		return domain.CategoryConfidence
	default:
		return domain.CategoryNoTrade
	}
}
