package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

var errNoResult = errors.New("extractor returned no result")

// extract runs the primary extractor and degrades to the fallback when it
// errors, panics or exceeds the timeout. An error *result* from the primary
// is kept: the document is still persisted for manual completion.
func (s *Service) extract(ctx context.Context, req provider.ExtractionRequest) (*provider.ExtractionResult, bool) {
	res, err := s.runExtractor(ctx, s.primary, req)
	if err == nil {
		return res, false
	}

	s.log.WarnContext(ctx, "extractor failed, degrading to fallback",
		slog.String("extractor", s.primary.Name()),
		slog.String("fallback", s.fallback.Name()),
		slog.String("fingerprint", req.Fingerprint),
		slog.String("error", err.Error()),
	)

	res, fbErr := s.runExtractor(ctx, s.fallback, req)
	if fbErr != nil {
		s.log.ErrorContext(ctx, "fallback extractor failed",
			slog.String("extractor", s.fallback.Name()),
			slog.String("error", fbErr.Error()),
		)
		return &provider.ExtractionResult{
			Provider: s.fallback.Name(),
			Method:   "none",
			Error:    fmt.Sprintf("extraction unavailable: %v", err),
		}, true
	}
	if res.Error == "" {
		res.Error = fmt.Sprintf("%s: %v", s.primary.Name(), err)
	}
	return res, true
}

type extraction struct {
	res *provider.ExtractionResult
	err error
}

// runExtractor bounds one extractor call by the configured timeout and turns
// a panic into an error.
func (s *Service) runExtractor(ctx context.Context, ex Extractor, req provider.ExtractionRequest) (*provider.ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ExtractionTimeout)
	defer cancel()

	done := make(chan extraction, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- extraction{err: fmt.Errorf("extractor %s panicked: %v", ex.Name(), r)}
			}
		}()
		res, err := ex.Extract(ctx, req)
		done <- extraction{res: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		if out.res == nil {
			return nil, errNoResult
		}
		return out.res, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("extractor %s: %w", ex.Name(), ctx.Err())
	}
}
