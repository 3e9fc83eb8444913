package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrInvalidPDF is returned when a file cannot be read as a PDF at all.
var ErrInvalidPDF = errors.New("invalid PDF")

// Info summarises what pdfcpu learned while validating a file.
type Info struct {
	PageCount int
}

// Validate reads and validates the PDF at filepath with pdfcpu.
func Validate(filepath string) (Info, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open file: %w", err)
	}
	return ValidateBytes(data)
}

// ValidateBytes validates an in-memory PDF with pdfcpu. Validation is
// relaxed: government bulletins are often produced by office suites that
// bend the PDF format rules, and the text backends cope with that.
func ValidateBytes(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("%w: empty input", ErrInvalidPDF)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return Info{}, fmt.Errorf("%w: failed to read PDF context: %v", ErrInvalidPDF, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if ctx.PageCount == 0 {
		return Info{}, fmt.Errorf("%w: document has no pages", ErrInvalidPDF)
	}

	return Info{PageCount: ctx.PageCount}, nil
}
