// Package anthropic extracts financial documents with Claude vision.
package anthropic

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

// Name is the processor name used in configuration.
const Name = "anthropic"

const (
	method           = "claude_vision"
	parseFailureConf = 0.2
	rawTextLimit     = 2000
	defaultConf      = 0.5
)

// Config holds extractor settings.
type Config struct {
	APIKey     string
	Model      string
	MaxTokens  int64
	MaxRetries int
	RetryDelay time.Duration
	BaseURL    string // empty means the public API
}

// Extractor calls the Messages API with the document attached and decodes the
// JSON payload in the reply.
type Extractor struct {
	client anthropic.Client
	cfg    Config
	log    *slog.Logger
}

// New creates an Extractor. SDK-level retries are disabled; Extract retries
// on its own schedule and reports the count.
func New(cfg Config, logger *slog.Logger) *Extractor {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}

	return &Extractor{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
		log:    logger.With("adapter", "anthropic"),
	}
}

// Name returns the processor name.
func (e *Extractor) Name() string { return Name }

// Extract never returns an error for API or parse failures; those become
// error results. Context cancellation and media types the model cannot read
// (ErrUnsupportedMedia) are returned as errors so the caller can switch
// extractors.
func (e *Extractor) Extract(ctx context.Context, req provider.ExtractionRequest) (*provider.ExtractionResult, error) {
	block, err := documentBlock(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.cfg.RetryDelay):
			}
		}

		text, err := e.call(ctx, block, req.Filename)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			e.log.WarnContext(ctx, "extraction attempt failed",
				slog.String("filename", req.Filename),
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()),
			)
			continue
		}

		result := parseResponse(text)
		result.Provider = Name
		result.Method = method
		result.RetriesUsed = attempt

		e.log.InfoContext(ctx, "extraction response received",
			slog.String("filename", req.Filename),
			slog.Int("attempt", attempt+1),
			slog.Float64("confidence", result.Confidence),
		)
		return result, nil
	}

	return &provider.ExtractionResult{
		DocumentType: domain.DocumentTypeUnknown,
		Provider:     Name,
		Method:       method,
		RetriesUsed:  e.cfg.MaxRetries,
		Error:        fmt.Sprintf("all %d attempts failed: %v", e.cfg.MaxRetries+1, lastErr),
	}, nil
}

func (e *Extractor) call(ctx context.Context, block anthropic.ContentBlockParamUnion, filename string) (string, error) {
	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.cfg.Model),
		MaxTokens: e.cfg.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				block,
				anthropic.NewTextBlock(fmt.Sprintf(
					"Extract all financial data from this document. Filename: %s. Return ONLY valid JSON.", filename)),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages api: %w", err)
	}

	var sb strings.Builder
	for _, c := range msg.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response")
	}
	return sb.String(), nil
}

// ErrUnsupportedMedia is returned for uploads the model cannot read, such as HEIC.
var ErrUnsupportedMedia = errors.New("unsupported media type")

func documentBlock(req provider.ExtractionRequest) (anthropic.ContentBlockParamUnion, error) {
	data := base64.StdEncoding.EncodeToString(req.Content)
	switch req.MimeType {
	case "application/pdf":
		return anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: data}), nil
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return anthropic.NewImageBlockBase64(req.MimeType, data), nil
	default:
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("%w %q", ErrUnsupportedMedia, req.MimeType)
	}
}

type lineItemPayload struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
}

type payload struct {
	DocumentType           string            `json:"document_type"`
	SupplierName           string            `json:"supplier_name"`
	SupplierTaxID          string            `json:"supplier_tax_id"`
	SupplierGST            string            `json:"supplier_gst"`
	InvoiceNumber          string            `json:"invoice_number"`
	DocumentDate           *string           `json:"document_date"`
	DocumentDateConfidence float64           `json:"document_date_confidence"`
	LineItems              []lineItemPayload `json:"line_items"`
	Subtotal               decimal.Decimal   `json:"subtotal"`
	TaxRate                decimal.Decimal   `json:"tax_rate"`
	TaxAmount              decimal.Decimal   `json:"tax_amount"`
	TotalAmount            decimal.Decimal   `json:"total_amount"`
	Currency               string            `json:"currency"`
	ExtractionConfidence   *float64          `json:"extraction_confidence"`
	RawOCRText             string            `json:"raw_ocr_text"`
}

// parseResponse decodes the model reply. Code fences and chatter around the
// JSON object are ignored; an undecodable reply yields a low-confidence
// error result.
func parseResponse(text string) *provider.ExtractionResult {
	var p payload
	if err := json.Unmarshal([]byte(extractJSON(text)), &p); err != nil {
		return &provider.ExtractionResult{
			DocumentType: domain.DocumentTypeUnknown,
			Confidence:   parseFailureConf,
			RawOCRText:   truncate(text, rawTextLimit),
			Error:        "JSON parse failure",
		}
	}

	res := &provider.ExtractionResult{
		DocumentType:           domain.ParseDocumentType(p.DocumentType),
		SupplierName:           strings.TrimSpace(p.SupplierName),
		SupplierTaxID:          strings.TrimSpace(p.SupplierTaxID),
		InvoiceNumber:          strings.TrimSpace(p.InvoiceNumber),
		DocumentDateConfidence: p.DocumentDateConfidence,
		Subtotal:               p.Subtotal,
		TaxRate:                p.TaxRate,
		TaxAmount:              p.TaxAmount,
		TotalAmount:            p.TotalAmount,
		Currency:               domain.NormalizeCurrency(p.Currency),
		Confidence:             defaultConf,
		RawOCRText:             p.RawOCRText,
	}
	if res.SupplierTaxID == "" {
		res.SupplierTaxID = strings.TrimSpace(p.SupplierGST)
	}
	if p.ExtractionConfidence != nil {
		res.Confidence = *p.ExtractionConfidence
	}
	if p.DocumentDate != nil {
		// An unreadable date is the same as no date.
		if d, err := domain.ParseBusinessDate(*p.DocumentDate); err == nil {
			res.DocumentDate = d
		}
	}
	if res.DocumentDate == nil {
		res.DocumentDateConfidence = 0
	}

	for _, li := range p.LineItems {
		res.LineItems = append(res.LineItems, domain.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Amount:      li.Amount,
			Category:    li.Category,
		})
	}

	return res
}

// extractJSON strips markdown fences and returns the outermost JSON object.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if _, after, ok := strings.Cut(s, "```json"); ok {
		s, _, _ = strings.Cut(after, "```")
	} else if _, after, ok := strings.Cut(s, "```"); ok {
		s, _, _ = strings.Cut(after, "```")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
