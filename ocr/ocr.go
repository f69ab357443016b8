// Package ocr defines the text recognition collaborator and the image
// references it works on.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	// Decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/shazow/wifisnap/wifi"
)

//go:generate go tool stringer -type=ScriptHint -trimprefix=Hint -output=scripthint_string.go

// ScriptHint tells the engine which writing system to expect.
type ScriptHint int

const (
	HintLatin ScriptHint = iota
	HintChineseSimplified
	HintChineseTraditional
	HintJapanese
	HintKorean
)

// DefaultHints is the order images are recognized in.
var DefaultHints = []ScriptHint{
	HintLatin,
	HintChineseSimplified,
	HintChineseTraditional,
	HintJapanese,
	HintKorean,
}

var hintNames = map[string]ScriptHint{
	"latin":               HintLatin,
	"chinese-simplified":  HintChineseSimplified,
	"zh-hans":             HintChineseSimplified,
	"chinese-traditional": HintChineseTraditional,
	"zh-hant":             HintChineseTraditional,
	"japanese":            HintJapanese,
	"ja":                  HintJapanese,
	"korean":              HintKorean,
	"ko":                  HintKorean,
}

// ParseHint parses a single hint name such as "latin" or "zh-hans".
func ParseHint(s string) (ScriptHint, error) {
	h, ok := hintNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown script hint: %q", s)
	}
	return h, nil
}

// ParseHints parses a comma separated list. Duplicates are dropped and an
// empty list yields DefaultHints.
func ParseHints(s string) ([]ScriptHint, error) {
	var hints []ScriptHint
	seen := map[ScriptHint]bool{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		h, err := ParseHint(part)
		if err != nil {
			return nil, err
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		hints = append(hints, h)
	}
	if len(hints) == 0 {
		return DefaultHints, nil
	}
	return hints, nil
}

// ErrNotImage is returned by OpenImage for files no decoder recognizes.
var ErrNotImage = errors.New("not a supported image")

// Image is a reference to an image on disk. Only the header has been read.
type Image struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// OpenImage checks that path is a decodable image and records its format and
// dimensions.
func OpenImage(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w: %v", path, ErrNotImage, err)
	}
	return Image{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Engine recognizes the text in an image. It is called once per hint.
type Engine interface {
	Recognize(ctx context.Context, img Image, hint ScriptHint) (string, error)
}

// Unavailable is the Engine used when no OCR support was built in.
type Unavailable struct{}

// Recognize always fails.
func (Unavailable) Recognize(ctx context.Context, img Image, hint ScriptHint) (string, error) {
	return "", fmt.Errorf("text recognition: %w", wifi.ErrNotSupported)
}
