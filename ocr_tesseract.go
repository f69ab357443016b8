//go:build !notesseract

package main

import (
	"log/slog"

	"github.com/shazow/wifisnap/ocr"
	"github.com/shazow/wifisnap/ocr/tesseract"
)

func GetOCR(logger *slog.Logger) (ocr.Engine, func() error) {
	e := tesseract.New(logger)
	return e, e.Close
}
