//go:build !notesseract

// Package tesseract recognizes text with libtesseract through gosseract.
package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/shazow/wifisnap/ocr"
)

// Engine wraps a single gosseract client. Calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger *slog.Logger
}

var _ ocr.Engine = (*Engine)(nil)

// New creates an engine. Close it when done.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		client: gosseract.NewClient(),
		logger: logger,
	}
}

// Close releases the underlying client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// Recognize returns the text in img using the languages for hint. Tesseract
// cannot be interrupted, so ctx is only checked before starting.
func (e *Engine) Recognize(ctx context.Context, img ocr.Image, hint ocr.ScriptHint) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return "", fmt.Errorf("tesseract: engine closed")
	}

	langs := Languages(hint)
	if err := e.client.SetLanguage(langs...); err != nil {
		return "", fmt.Errorf("failed to set OCR language %s: %w", strings.Join(langs, "+"), err)
	}
	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetImage(img.Path); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	e.logger.Debug("recognized text", "hint", hint, "path", img.Path, "chars", len(text))
	return text, nil
}
