package app

import (
	"log/slog"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/provider/docai"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/provider/mockextract"
	"github.com/heartmarshall/ledgerlens-backend/internal/config"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/intake"
)

// AvailableProcessors lists the processor names newExtractor understands.
var AvailableProcessors = []string{anthropic.Name, docai.Name, mockextract.Name}

// newExtractor builds the named extractor. An unknown name, or anthropic
// without an API key, degrades to the mock extractor so the server still
// starts.
func newExtractor(name string, cfg config.ExtractionConfig, logger *slog.Logger) intake.Extractor {
	switch name {
	case anthropic.Name:
		if cfg.APIKey == "" {
			logger.Warn("anthropic extractor has no api key, using mock", slog.String("processor", name))
			return mockextract.New()
		}
		return anthropic.New(anthropic.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, logger)
	case docai.Name:
		return docai.NewStub()
	case mockextract.Name:
		return mockextract.New()
	default:
		logger.Warn("unknown extraction processor, using mock", slog.String("processor", name))
		return mockextract.New()
	}
}
