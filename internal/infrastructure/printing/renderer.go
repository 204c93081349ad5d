// Package printing produces invoice PDFs from HTML templates using headless Chrome.
package printing

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
)

// A4 portrait, in millimetres
const (
	paperWidthMM  = 210
	paperHeightMM = 297
	marginMM      = 12
)

// Document is one HTML page to print. Footer is a Chrome footer template and
// may use the pageNumber and totalPages classes.
type Document struct {
	HTML      string
	Title     string
	Footer    string
	Landscape bool
	Timeout   time.Duration // zero uses the renderer default
}

// PDFRenderer turns a Document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	Close() error
}

// Rendering failures surface as domain errors so the HTTP layer answers
// with a stable code.
const (
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeTemplate      = "TEMPLATE_ERROR"
)

func renderError(code, message string, cause error) error {
	if cause == nil {
		return shared.NewDomainError(code, message)
	}
	return shared.WrapDomainError(code, message, cause)
}
