//go:build notesseract

package main

import (
	"log/slog"

	"github.com/shazow/wifisnap/ocr"
)

func GetOCR(logger *slog.Logger) (ocr.Engine, func() error) {
	logger.Debug("built without text recognition")
	return ocr.Unavailable{}, func() error { return nil }
}
