// Package extract pulls plain text out of uploaded CV documents. The intake
// accepts PDF only; the extracted text is persisted next to the original as
// a derived object so reruns skip the parse.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"recruiting-backend/internal/shared/storage/object"
)

const mimePDF = "application/pdf"

var pdfMagic = []byte("%PDF-")

// ErrNoText is returned when a PDF parses but yields no extractable text,
// typically a scanned document without an OCR layer.
var ErrNoText = errors.New("no text could be extracted from document")

// Stats describes one extraction run.
type Stats struct {
	CharCount int
	WordCount int
}

// ExtractText pulls text from a stored object and persists a derived
// .extracted.txt copy under the same key prefix.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (string, Stats, error) {
	if err := ctx.Err(); err != nil {
		return "", Stats{}, err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", Stats{}, fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", Stats{}, fmt.Errorf("extract text key=%s: read: %w", fileKey, err)
	}

	text, stats, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", Stats{}, fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}

	extractedKey := fileKey + ".extracted.txt"
	if err := saveExtracted(ctx, store, extractedKey, text); err != nil {
		return "", Stats{}, fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}

	return text, stats, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, Stats, error) {
	if err := ctx.Err(); err != nil {
		return "", Stats{}, err
	}
	if normalizeMimeType(mimeType, fileName, data) != mimePDF {
		return "", Stats{}, fmt.Errorf("unsupported mime type: %s (only PDF is accepted)", mimeType)
	}

	text, err := extractPDF(data)
	if err != nil {
		return "", Stats{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", Stats{}, ErrNoText
	}

	stats := Stats{
		CharCount: len(text),
		WordCount: len(strings.Fields(text)),
	}
	return text, stats, nil
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

func saveExtracted(ctx context.Context, store object.ObjectStore, key string, text string) error {
	saver, ok := store.(keySaver)
	if !ok {
		return errors.New("object store does not support SaveWithKey")
	}
	reader := strings.NewReader(text)
	_, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", reader)
	return err
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// normalizeMimeType resolves loose client-supplied content types. Browsers
// occasionally send application/octet-stream for PDFs; the magic bytes and
// the file extension settle it.
func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == mimePDF {
		return mimePDF
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return mimePDF
	}
	if clean == "application/octet-stream" && strings.ToLower(filepath.Ext(fileName)) == ".pdf" {
		return mimePDF
	}
	return clean
}
