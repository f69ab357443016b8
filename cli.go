package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shazow/wifisnap/internal/tui"
	"github.com/shazow/wifisnap/match"
	"github.com/shazow/wifisnap/ocr"
	"github.com/shazow/wifisnap/qrwifi"
	"github.com/shazow/wifisnap/resolve"
	"github.com/shazow/wifisnap/wifi"
)

// errCancelled is returned when the user backs out of the picker.
var errCancelled = errors.New("cancelled")

// readSource builds the extraction source from the -qr and -text flags or an
// image path argument, in that order. A text path of "-" reads stdin.
func readSource(qr, textPath string, args []string, stdin io.Reader) (resolve.Source, error) {
	switch {
	case qr != "":
		return resolve.Source{QR: qr}, nil
	case textPath != "":
		var r io.Reader = stdin
		if textPath != "-" {
			f, err := os.Open(textPath)
			if err != nil {
				return resolve.Source{}, err
			}
			defer f.Close()
			r = f
		}
		b, err := io.ReadAll(r)
		if err != nil {
			return resolve.Source{}, err
		}
		return resolve.Source{Text: string(b)}, nil
	case len(args) > 0:
		img, err := ocr.OpenImage(args[0])
		if err != nil {
			return resolve.Source{}, err
		}
		return resolve.Source{Image: &img}, nil
	}
	return resolve.Source{}, fmt.Errorf("one of -qr, -text or an image path is required")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCredentials(w io.Writer, c wifi.Credentials) {
	fmt.Fprintf(w, "SSID: %s\n", c.SSID)
	fmt.Fprintf(w, "Password: %s\n", c.Password)
	fmt.Fprintf(w, "Security: %s\n", c.Security)
	if c.Hidden {
		fmt.Fprintf(w, "Hidden: %t\n", c.Hidden)
	}
}

func runExtract(ctx context.Context, w io.Writer, jsonOut bool, r *resolve.Resolver, src resolve.Source) error {
	creds, err := r.Extract(ctx, src)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, creds)
	}
	printCredentials(w, creds)
	return nil
}

func runScan(ctx context.Context, w io.Writer, jsonOut, all bool, scanner wifi.Scanner, opts wifi.CatalogOptions) error {
	nets, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan networks: %w", err)
	}
	if !all {
		nets = opts.Build(nets)
	}
	wifi.SortBySignal(nets)

	if jsonOut {
		return writeJSON(w, nets)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range nets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.SSID, n.Security(), formatLevel(n), formatFrequency(n), formatSeen(n))
	}
	return tw.Flush()
}

func printCandidates(w io.Writer, results []match.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range results {
		fmt.Fprintf(tw, "%.2f\t%s\t%s\t%s\n", c.Score, c.Network.SSID, c.Network.Security(), formatLevel(c.Network))
	}
	return tw.Flush()
}

func runMatch(ctx context.Context, w io.Writer, jsonOut bool, r *resolve.Resolver, target string) error {
	res, err := r.Match(ctx, wifi.Credentials{SSID: target}, resolve.ModeList)
	if err != nil {
		return err
	}
	if res.ScanErr != nil {
		return res.ScanErr
	}
	if jsonOut {
		return writeJSON(w, res.Candidates)
	}
	return printCandidates(w, res.Candidates)
}

// PickFunc chooses one of the ranked candidates, reporting false if the user
// declined to.
type PickFunc func(results []match.Result, target string) (wifi.Network, bool, error)

type resolveOptions struct {
	Mode    resolve.Mode
	Pick    PickFunc
	Connect bool
	Share   bool
	JSON    bool
}

type resolveOutput struct {
	resolve.Resolution
	ScanError string `json:"scan_error,omitempty"`
	QR        string `json:"qr,omitempty"`
	Connected *bool  `json:"connected,omitempty"`
}

// unmatched reports whether err still leaves usable extracted credentials.
func unmatched(err error) bool {
	return errors.Is(err, wifi.ErrEmptyCatalog) || errors.Is(err, wifi.ErrNoMatchAboveThreshold)
}

func runResolve(ctx context.Context, w io.Writer, r *resolve.Resolver, src resolve.Source, opts resolveOptions) error {
	res, err := r.Resolve(ctx, src, opts.Mode)
	var matchErr error
	switch {
	case err == nil:
	case unmatched(err):
		// Fall back to the extracted name, as a user typing it in would.
		matchErr = err
	default:
		return err
	}

	if opts.Pick != nil && len(res.Candidates) > 0 {
		n, ok, err := opts.Pick(res.Candidates, res.Extracted.SSID)
		if err != nil {
			return err
		}
		if !ok {
			return errCancelled
		}
		res.Selected = &n
		res.Credentials.SSID = n.SSID
	}
	creds := res.Credentials

	out := resolveOutput{Resolution: res}
	if res.ScanErr != nil {
		out.ScanError = res.ScanErr.Error()
	}
	if !opts.JSON {
		printCredentials(w, creds)
		switch {
		case matchErr != nil:
			fmt.Fprintf(w, "Unverified: %v\n", matchErr)
		case res.ScanErr != nil:
			fmt.Fprintf(w, "Unverified: %v\n", res.ScanErr)
		case len(res.Candidates) > 0 && opts.Mode == resolve.ModeList && opts.Pick == nil:
			fmt.Fprintln(w, "Candidates:")
			if err := printCandidates(w, res.Candidates); err != nil {
				return err
			}
		}
	}

	if opts.Share {
		qr, err := qrwifi.GenerateQRCode(creds)
		if err != nil {
			return fmt.Errorf("failed to render QR code: %w", err)
		}
		out.QR = qrwifi.Encode(creds)
		if !opts.JSON {
			fmt.Fprint(w, qr)
		}
	}

	if opts.Connect {
		ok, err := r.Connect(ctx, creds)
		if err != nil {
			return err
		}
		out.Connected = &ok
		if !opts.JSON {
			if ok {
				fmt.Fprintf(w, "Connected to %s\n", creds.SSID)
			} else {
				fmt.Fprintf(w, "Could not connect to %s\n", creds.SSID)
			}
		}
	}

	if opts.JSON {
		if err := writeJSON(w, out); err != nil {
			return err
		}
	}
	if out.Connected != nil && !*out.Connected {
		return fmt.Errorf("connect %q: %w", creds.SSID, wifi.ErrOperationFailed)
	}
	return nil
}

func parseSecurity(s string) (wifi.SecurityKind, error) {
	k, err := wifi.ParseSecurityKind(s)
	if err != nil || k == wifi.SecurityUnknown {
		return wifi.SecurityUnknown, fmt.Errorf("invalid security type: %s", s)
	}
	return k, nil
}

func runConnect(ctx context.Context, w io.Writer, r *resolve.Resolver, creds wifi.Credentials) error {
	ok, err := r.Connect(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if !ok {
		return fmt.Errorf("connect %q: %w", creds.SSID, wifi.ErrOperationFailed)
	}
	fmt.Fprintf(w, "Connected to %s\n", creds.SSID)
	return nil
}

// pickWithRescan runs the picker, rescanning through r on demand.
func pickWithRescan(ctx context.Context, r *resolve.Resolver) PickFunc {
	return func(results []match.Result, target string) (wifi.Network, bool, error) {
		rescan := func() ([]match.Result, error) {
			res, err := r.Match(ctx, wifi.Credentials{SSID: target}, resolve.ModeList)
			if err != nil && !unmatched(err) {
				return nil, err
			}
			if res.ScanErr != nil {
				return nil, res.ScanErr
			}
			return res.Candidates, nil
		}
		return tui.Pick(results, target, tui.WithRescan(rescan))
	}
}
