// Package textextract converts stored document bytes into plain text for
// the ingestion pipeline.
package textextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Domain errors for text extraction.
var (
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrUnreadable      = errors.New("document could not be read")
)

// Extractor converts document bytes into plain text based on content type.
type Extractor interface {
	Extract(ctx context.Context, contentType string, r io.Reader) (string, error)
}

// New creates an Extractor handling PDF text layers, XLSX cell rows, and
// UTF-8 text documents (plain, markdown, csv).
func New(logger *slog.Logger) Extractor {
	return &extractor{logger: logger.With("system", "textextract")}
}

type extractor struct {
	logger *slog.Logger
}

func (e *extractor) Extract(ctx context.Context, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mediaType := strings.TrimSpace(contentType)
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	switch mediaType {
	case "application/pdf":
		return e.extractPDF(ctx, data)
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return extractWorkbook(data)
	case "text/plain", "text/markdown", "text/csv":
		return extractText(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
}

func (e *extractor) extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed files instead of returning
	// an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping unreadable page", "page", i, "error", err)
			continue
		}

		b.WriteString(content)
		b.WriteByte('\n')
	}

	return strings.TrimSpace(b.String()), nil
}

func extractWorkbook(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " "))
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSpace(b.String()), nil
}

func extractText(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(data), "�"))
}
