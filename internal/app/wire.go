package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/checklist"
	"github.com/ohare93/pacer/internal/config"
	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/intake"
	"github.com/ohare93/pacer/internal/llm"
	"github.com/ohare93/pacer/internal/store"
	"github.com/ohare93/pacer/internal/telemetry"
)

// Open builds an App from configuration: the configured store, the chat
// model (when a provider is usable) and the intake pipeline.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *telemetry.Metrics) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := store.Open(cfg, logger, m)
	if err != nil {
		return nil, err
	}

	ext := dates.NewExtractor()
	ext.SpanDays = cfg.Intake.DefaultSpanDays

	gen := checklist.NewGenerator(chatProvider(ctx, cfg.LLM, logger), cfg.LLM.Timeout, logger)
	in := intake.New(ext, gen, logger)
	in.SpanDays = cfg.Intake.DefaultSpanDays

	return New(s, in, logger, m), nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.store.Close()
}

// chatProvider returns nil, and so template-only checklists, when no
// provider is configured or the model cannot be built.
func chatProvider(ctx context.Context, c config.LLMConfig, logger *zap.Logger) checklist.Provider {
	if c.Provider == "" || c.Provider == "none" {
		return nil
	}
	lc := llm.Config{
		Provider: llm.Provider(c.Provider),
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
	}
	if !lc.Enabled() {
		logger.Debug("llm provider not usable, using templates", zap.String("provider", c.Provider))
		return nil
	}
	cm, err := llm.NewChatModel(ctx, lc)
	if err != nil {
		logger.Warn("failed to create chat model, using templates",
			zap.String("provider", c.Provider), zap.Error(err))
		return nil
	}
	return checklist.NewChatProvider(cm)
}
