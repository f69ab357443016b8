// Package resolve turns a QR payload or a label photo into credentials for a
// network that is actually in range.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shazow/wifisnap/internal/telemetry"
	"github.com/shazow/wifisnap/labeltext"
	"github.com/shazow/wifisnap/match"
	"github.com/shazow/wifisnap/ocr"
	"github.com/shazow/wifisnap/qrwifi"
	"github.com/shazow/wifisnap/wifi"
)

var tracer = otel.Tracer("github.com/shazow/wifisnap/resolve")

// Mode selects what Match does with the ranked candidates.
type Mode int

const (
	// ModeList leaves the choice to the caller.
	ModeList Mode = iota
	// ModeAutoSelect puts the best candidate's SSID into the credentials.
	ModeAutoSelect
)

func (m Mode) String() string {
	if m == ModeAutoSelect {
		return "auto"
	}
	return "list"
}

// Source is where credentials come from. The first non-empty field is used,
// in the order QR, Text, Image.
type Source struct {
	QR    string
	Text  string
	Image *ocr.Image
}

// Resolution is the outcome of matching extracted credentials against a scan.
type Resolution struct {
	// Extracted is what the extractor produced, untouched.
	Extracted wifi.Credentials `json:"extracted"`
	// Credentials is Extracted with the SSID replaced by the selected
	// network's, in ModeAutoSelect. The password is never changed.
	Credentials wifi.Credentials `json:"credentials"`
	Candidates  []match.Result   `json:"candidates"`
	Selected    *wifi.Network    `json:"selected,omitempty"`
	// Verified is set when the SSID was checked against a fresh scan.
	Verified bool `json:"verified"`
	// ScanErr is why the SSID could not be verified.
	ScanErr error `json:"-"`
}

// Resolver sequences extraction, scanning and matching. It holds only
// configuration and is safe for concurrent use.
type Resolver struct {
	OCR         ocr.Engine
	Scanner     wifi.Scanner
	Connector   wifi.Connector
	Extractor   *labeltext.Extractor
	Hints       []ocr.ScriptHint
	Catalog     wifi.CatalogOptions
	Matcher     match.Matcher
	CallTimeout time.Duration
	Logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOCR sets the text recognition engine.
func WithOCR(e ocr.Engine) Option { return func(r *Resolver) { r.OCR = e } }

// WithScanner sets the radio scanner.
func WithScanner(s wifi.Scanner) Option { return func(r *Resolver) { r.Scanner = s } }

// WithConnector sets the radio connector.
func WithConnector(c wifi.Connector) Option { return func(r *Resolver) { r.Connector = c } }

// WithBackend uses b as both scanner and connector.
func WithBackend(b wifi.Backend) Option {
	return func(r *Resolver) {
		r.Scanner = b
		r.Connector = b
	}
}

// WithExtractor replaces the default label rules.
func WithExtractor(e *labeltext.Extractor) Option { return func(r *Resolver) { r.Extractor = e } }

// WithHints sets the order script hints are tried in.
func WithHints(h []ocr.ScriptHint) Option { return func(r *Resolver) { r.Hints = h } }

// WithCatalogOptions configures how scan results are cleaned.
func WithCatalogOptions(o wifi.CatalogOptions) Option { return func(r *Resolver) { r.Catalog = o } }

// WithMatcher sets the matcher, and so the acceptance threshold.
func WithMatcher(m match.Matcher) Option { return func(r *Resolver) { r.Matcher = m } }

// WithCallTimeout bounds every collaborator call. Zero means no bound.
func WithCallTimeout(d time.Duration) Option { return func(r *Resolver) { r.CallTimeout = d } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(r *Resolver) { r.Logger = l } }

// New returns a Resolver with defaults for everything not set by opts.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		OCR:       ocr.Unavailable{},
		Extractor: labeltext.Default(),
		Hints:     ocr.DefaultHints,
		Catalog:   wifi.DefaultCatalogOptions,
		Matcher:   match.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	if r.Extractor == nil {
		r.Extractor = labeltext.Default()
	}
	if r.OCR == nil {
		r.OCR = ocr.Unavailable{}
	}
	return r
}

// ExtractFromQR parses a WIFI: payload.
func (r *Resolver) ExtractFromQR(payload string) (wifi.Credentials, error) {
	return qrwifi.Parse(payload)
}

// ExtractFromText runs the label rules over text.
func (r *Resolver) ExtractFromText(text string) (wifi.Credentials, error) {
	c, ok := r.Extractor.Extract(text)
	if !ok {
		return wifi.Credentials{}, wifi.ErrNoCredentialFound
	}
	return c, nil
}

// ExtractFromImage recognizes img once per hint, in order, and extracts from
// each text on its own, stopping at the first success. If none succeeds, it
// extracts once more from all recognized texts joined together.
func (r *Resolver) ExtractFromImage(ctx context.Context, img ocr.Image) (wifi.Credentials, error) {
	ctx, span := tracer.Start(ctx, "ExtractFromImage")
	defer span.End()
	span.SetAttributes(attribute.String("image.format", img.Format))

	var (
		texts   []string
		lastErr error
	)
	for _, hint := range r.Hints {
		if err := ctx.Err(); err != nil {
			return wifi.Credentials{}, err
		}
		text, err := within(ctx, r.CallTimeout, func(ctx context.Context) (string, error) {
			return r.OCR.Recognize(ctx, img, hint)
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return wifi.Credentials{}, ctxErr
			}
			r.Logger.Warn("text recognition failed", "hint", hint, "err", err)
			lastErr = err
			continue
		}
		span.AddEvent("recognized", trace.WithAttributes(attribute.Stringer("hint", hint)))
		if c, ok := r.Extractor.Extract(text); ok {
			r.Logger.Debug("extracted credentials", "hint", hint, "ssid", c.SSID)
			return c, nil
		}
		texts = append(texts, text)
	}

	if len(texts) == 0 && lastErr != nil {
		return wifi.Credentials{}, fmt.Errorf("text recognition: %w: %w", wifi.ErrCollaboratorFailure, lastErr)
	}
	if len(texts) > 1 {
		if c, ok := r.Extractor.Extract(strings.Join(texts, "\n")); ok {
			r.Logger.Debug("extracted credentials from combined text", "ssid", c.SSID)
			return c, nil
		}
	}
	return wifi.Credentials{}, wifi.ErrNoCredentialFound
}

// Kind names the populated field: "qr", "text", "image" or "" if none is.
func (s Source) Kind() string {
	switch {
	case s.QR != "":
		return "qr"
	case s.Text != "":
		return "text"
	case s.Image != nil:
		return "image"
	}
	return ""
}

// Extract dispatches on the populated Source field.
func (r *Resolver) Extract(ctx context.Context, src Source) (c wifi.Credentials, err error) {
	kind := src.Kind()
	defer func() {
		if kind != "" {
			telemetry.Extractions.WithLabelValues(kind, telemetry.Outcome(err)).Inc()
		}
	}()

	switch kind {
	case "qr":
		return r.ExtractFromQR(src.QR)
	case "text":
		return r.ExtractFromText(src.Text)
	case "image":
		return r.ExtractFromImage(ctx, *src.Image)
	}
	return wifi.Credentials{}, wifi.ErrNoCredentialFound
}

// Match scans for networks and ranks them against creds.SSID.
//
// A failed scan is not an error: the resolution comes back unverified with
// the extracted SSID and ScanErr set. ErrEmptyCatalog and
// ErrNoMatchAboveThreshold are returned alongside the resolution so the caller
// can still fall back to manual entry.
func (r *Resolver) Match(ctx context.Context, creds wifi.Credentials, mode Mode) (res Resolution, err error) {
	ctx, span := tracer.Start(ctx, "Match", trace.WithAttributes(attribute.Stringer("mode", mode)))
	defer func() {
		span.SetAttributes(
			attribute.Int("candidates", len(res.Candidates)),
			attribute.Bool("verified", res.Verified),
		)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	res = Resolution{Extracted: creds, Credentials: creds, Candidates: []match.Result{}}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if r.Scanner == nil {
		res.ScanErr = fmt.Errorf("scan: %w", wifi.ErrNotSupported)
		r.Logger.Warn("no scanner, using extracted network name", "ssid", creds.SSID)
		return res, nil
	}
	raw, err := within(ctx, r.CallTimeout, r.Scanner.Scan)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		res.ScanErr = fmt.Errorf("scan: %w: %w", wifi.ErrCollaboratorFailure, err)
		telemetry.ScanFailures.Inc()
		span.RecordError(res.ScanErr)
		r.Logger.Warn("scan failed, using extracted network name", "ssid", creds.SSID, "err", err)
		return res, nil
	}

	catalog := r.Catalog.Build(raw)
	r.Logger.Debug("scanned", "raw", len(raw), "catalog", len(catalog))
	if len(catalog) == 0 {
		return res, wifi.ErrEmptyCatalog
	}

	res.Candidates = r.Matcher.Rank(creds.SSID, catalog)
	telemetry.MatchCandidates.Observe(float64(len(res.Candidates)))
	if len(res.Candidates) == 0 {
		return res, fmt.Errorf("%q: %w", creds.SSID, wifi.ErrNoMatchAboveThreshold)
	}
	res.Verified = true

	if mode == ModeAutoSelect {
		best := res.Candidates[0].Network
		res.Selected = &best
		res.Credentials.SSID = best.SSID
		if best.SSID != creds.SSID {
			r.Logger.Info("matched network", "extracted", creds.SSID, "selected", best.SSID, "score", res.Candidates[0].Score)
		}
	}
	return res, nil
}

// Resolve extracts credentials from src and matches them against a fresh
// scan. An extraction failure returns before anything is scanned.
func (r *Resolver) Resolve(ctx context.Context, src Source, mode Mode) (Resolution, error) {
	ctx, span := tracer.Start(ctx, "Resolve", trace.WithAttributes(attribute.String("source", src.Kind())))
	defer span.End()

	creds, err := r.Extract(ctx, src)
	if err != nil {
		return Resolution{}, err
	}
	if err := ctx.Err(); err != nil {
		return Resolution{Extracted: creds, Credentials: creds}, err
	}
	return r.Match(ctx, creds, mode)
}

// Connect hands creds to the connector. A rejected attempt is (false, nil);
// transport errors and timeouts wrap wifi.ErrCollaboratorFailure.
func (r *Resolver) Connect(ctx context.Context, creds wifi.Credentials) (bool, error) {
	if creds.SSID == "" {
		return false, wifi.ErrEmptySSID
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.Connector == nil {
		return false, fmt.Errorf("connect: %w", wifi.ErrNotSupported)
	}
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()

	ok, err := within(ctx, r.CallTimeout, func(ctx context.Context) (bool, error) {
		return r.Connector.Connect(ctx, creds.SSID, creds.Password, creds.IsWPA())
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		r.Logger.Warn("connect failed", "ssid", creds.SSID, "err", err)
		return false, fmt.Errorf("connect %q: %w: %w", creds.SSID, wifi.ErrCollaboratorFailure, err)
	}
	r.Logger.Info("connect attempted", "ssid", creds.SSID, "ok", ok)
	return ok, nil
}

// within runs fn with a deadline of timeout, if positive, and returns as soon
// as ctx is done even if fn has not.
func within[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	select {
	case res := <-done:
		return res.v, res.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("timed out after %s", timeout)
		}
		return zero, ctx.Err()
	}
}
