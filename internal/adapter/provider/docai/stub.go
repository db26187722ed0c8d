// Package docai reserves the processor slot for a managed document AI backend.
package docai

import (
	"context"
	"errors"

	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

// Name is the processor name used in configuration.
const Name = "docai"

// ErrNotConfigured is returned by every Extract call.
var ErrNotConfigured = errors.New("document ai not configured")

// Stub is an extractor without a backend. Its error is treated by intake as
// an extractor outage, so documents degrade to the fallback extractor.
type Stub struct{}

// NewStub creates a new Stub.
func NewStub() *Stub { return &Stub{} }

// Name returns the processor name.
func (s *Stub) Name() string { return Name }

// Extract always fails with ErrNotConfigured.
func (s *Stub) Extract(_ context.Context, _ provider.ExtractionRequest) (*provider.ExtractionResult, error) {
	return nil, ErrNotConfigured
}
