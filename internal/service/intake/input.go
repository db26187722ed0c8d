package intake

import (
	"mime"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const (
	defaultMaxUploadBytes = 20 << 20
	maxFilenameLen        = 255
)

// mimeExtensions is the upload allow list.
var mimeExtensions = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/heic":      ".heic",
	"image/webp":      ".webp",
}

var mimeAliases = map[string]string{
	"image/jpg":   "image/jpeg",
	"image/pjpeg": "image/jpeg",
	"image/x-png": "image/png",
	"image/heif":  "image/heic",
}

// IngestInput is one uploaded file.
type IngestInput struct {
	OutletID uuid.UUID
	Filename string
	MimeType string
	Content  []byte
}

// Validate checks all fields and collects all errors.
func (i IngestInput) Validate(maxBytes int64) error {
	var errs []domain.FieldError

	if i.OutletID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "outlet_id", Message: "required"})
	}
	name := strings.TrimSpace(i.Filename)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "filename", Message: "required"})
	} else if len(name) > maxFilenameLen {
		errs = append(errs, domain.FieldError{Field: "filename", Message: "max 255 characters"})
	}
	if _, ok := mimeExtensions[NormalizeMimeType(i.MimeType)]; !ok {
		errs = append(errs, domain.FieldError{Field: "mime_type", Message: "unsupported file type"})
	}
	switch {
	case len(i.Content) == 0:
		errs = append(errs, domain.FieldError{Field: "file", Message: "empty file"})
	case int64(len(i.Content)) > maxBytes:
		errs = append(errs, domain.FieldError{Field: "file", Message: "file too large"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// NormalizeMimeType lower-cases a content type, strips parameters and maps
// common aliases.
func NormalizeMimeType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	if alias, ok := mimeAliases[mt]; ok {
		return alias
	}
	return mt
}
