package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/shazow/wifisnap/internal/debug"
	wifilog "github.com/shazow/wifisnap/internal/log"
	"github.com/shazow/wifisnap/internal/server"
	"github.com/shazow/wifisnap/internal/telemetry"
	"github.com/shazow/wifisnap/internal/tui"
	"github.com/shazow/wifisnap/labeltext"
	"github.com/shazow/wifisnap/match"
	"github.com/shazow/wifisnap/ocr"
	"github.com/shazow/wifisnap/resolve"
	"github.com/shazow/wifisnap/wifi"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

// config holds the root flags shared by every subcommand.
type config struct {
	labels           string
	threshold        float64
	includeUnsecured bool
	hints            string
	timeout          time.Duration
}

// newResolver builds a resolver from the root flags. b and engine may be nil.
func (c config) newResolver(b wifi.Backend, engine ocr.Engine, logger *slog.Logger) (*resolve.Resolver, error) {
	opts := []resolve.Option{
		resolve.WithLogger(logger),
		resolve.WithMatcher(match.New(c.threshold)),
		resolve.WithCatalogOptions(wifi.CatalogOptions{IncludeUnsecured: c.includeUnsecured}),
		resolve.WithCallTimeout(c.timeout),
	}
	if b != nil {
		opts = append(opts, resolve.WithBackend(b))
	}
	if engine != nil {
		opts = append(opts, resolve.WithOCR(engine))
	}
	if c.hints != "" {
		hints, err := ocr.ParseHints(c.hints)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resolve.WithHints(hints))
	}
	if c.labels != "" {
		f, err := os.Open(c.labels)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		table, err := labeltext.LoadRules(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.labels, err)
		}
		e, err := labeltext.NewExtractor(table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.labels, err)
		}
		opts = append(opts, resolve.WithExtractor(e))
	}
	return resolve.New(opts...), nil
}

// main is the entry point of the application
func main() {
	var (
		cfg         config
		rootFlagSet = flag.NewFlagSet("wifisnap", flag.ExitOnError)
		theme       = rootFlagSet.String("theme", "", "path to theme toml file (env: WIFISNAP_THEME)")
		debugLog    = rootFlagSet.Bool("debug", false, "write a verbose log to "+debug.FileName)
		tracePath   = rootFlagSet.String("trace", "", "write trace spans as JSON to this file")
		version     = rootFlagSet.Bool("version", false, "display version")
	)
	rootFlagSet.StringVar(&cfg.labels, "labels", "", "path to a toml file of extra label rules (env: WIFISNAP_LABELS)")
	rootFlagSet.Float64Var(&cfg.threshold, "threshold", match.DefaultThreshold, "minimum similarity for a network to match, 0 to 1")
	rootFlagSet.BoolVar(&cfg.includeUnsecured, "include-unsecured", false, "offer networks that advertise no security")
	rootFlagSet.StringVar(&cfg.hints, "hints", "", "comma separated OCR script hints, in the order to try them")
	rootFlagSet.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "timeout for each scan, connect or OCR call")

	var (
		b        wifi.Backend
		resolver *resolve.Resolver
		logger   *slog.Logger
	)
	needBackend := func() error {
		if b == nil {
			return fmt.Errorf("no wifi backend: %w", wifi.ErrNotAvailable)
		}
		return nil
	}

	extractFlagSet := flag.NewFlagSet("extract", flag.ExitOnError)
	extractQR := extractFlagSet.String("qr", "", "WIFI: payload from a QR code")
	extractText := extractFlagSet.String("text", "", "file of recognized label text, - for stdin")
	extractJSON := extractFlagSet.Bool("json", false, "output in JSON format")
	extractCmd := &ffcli.Command{
		Name:       "extract",
		ShortUsage: "wifisnap extract [-qr payload | -text file | image]",
		ShortHelp:  "Extract credentials from a QR payload, label text or a photo",
		FlagSet:    extractFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			src, err := readSource(*extractQR, *extractText, args, os.Stdin)
			if err != nil {
				return err
			}
			return runExtract(ctx, os.Stdout, *extractJSON, resolver, src)
		},
	}

	scanFlagSet := flag.NewFlagSet("scan", flag.ExitOnError)
	scanJSON := scanFlagSet.Bool("json", false, "output in JSON format")
	scanAll := scanFlagSet.Bool("all", false, "list every access point, including hidden and duplicate ones")
	scanCmd := &ffcli.Command{
		Name:      "scan",
		ShortHelp: "List wifi networks in range",
		FlagSet:   scanFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if err := needBackend(); err != nil {
				return err
			}
			return runScan(ctx, os.Stdout, *scanJSON, *scanAll, b, resolver.Catalog)
		},
	}

	matchFlagSet := flag.NewFlagSet("match", flag.ExitOnError)
	matchJSON := matchFlagSet.Bool("json", false, "output in JSON format")
	matchCmd := &ffcli.Command{
		Name:       "match",
		ShortUsage: "wifisnap match [-json] <ssid>",
		ShortHelp:  "Rank the networks in range against a network name",
		FlagSet:    matchFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("match requires an ssid")
			}
			if err := needBackend(); err != nil {
				return err
			}
			return runMatch(ctx, os.Stdout, *matchJSON, resolver, args[0])
		},
	}

	resolveFlagSet := flag.NewFlagSet("resolve", flag.ExitOnError)
	resolveQR := resolveFlagSet.String("qr", "", "WIFI: payload from a QR code")
	resolveText := resolveFlagSet.String("text", "", "file of recognized label text, - for stdin")
	resolveAuto := resolveFlagSet.Bool("auto", false, "use the best matching network")
	resolvePick := resolveFlagSet.Bool("pick", false, "choose among the matching networks interactively")
	resolveConnect := resolveFlagSet.Bool("connect", false, "join the resolved network")
	resolveShare := resolveFlagSet.Bool("share", false, "print the resolved credentials as a QR code")
	resolveJSON := resolveFlagSet.Bool("json", false, "output in JSON format")
	resolveCmd := &ffcli.Command{
		Name:       "resolve",
		ShortUsage: "wifisnap resolve [flags] [-qr payload | -text file | image]",
		ShortHelp:  "Extract credentials and match them against the networks in range",
		FlagSet:    resolveFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			src, err := readSource(*resolveQR, *resolveText, args, os.Stdin)
			if err != nil {
				return err
			}
			opts := resolveOptions{Connect: *resolveConnect, Share: *resolveShare, JSON: *resolveJSON}
			if *resolveAuto {
				opts.Mode = resolve.ModeAutoSelect
			}
			if *resolvePick {
				opts.Pick = pickWithRescan(ctx, resolver)
			}
			return runResolve(ctx, os.Stdout, resolver, src, opts)
		},
	}

	connectFlagSet := flag.NewFlagSet("connect", flag.ExitOnError)
	connectPassphrase := connectFlagSet.String("passphrase", "", "passphrase for the network")
	connectSecurity := connectFlagSet.String("security", "wpa", "security type (open, wep, wpa)")
	connectCmd := &ffcli.Command{
		Name:       "connect",
		ShortUsage: "wifisnap connect [-passphrase p] [-security wpa|wep|open] <ssid>",
		ShortHelp:  "Connect to a wifi network",
		FlagSet:    connectFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("connect requires an ssid")
			}
			if err := needBackend(); err != nil {
				return err
			}
			security, err := parseSecurity(*connectSecurity)
			if err != nil {
				return err
			}
			creds := wifi.Credentials{SSID: args[0], Password: *connectPassphrase, Security: security}
			return runConnect(ctx, os.Stdout, resolver, creds)
		},
	}

	serveFlagSet := flag.NewFlagSet("serve", flag.ExitOnError)
	serveAddr := serveFlagSet.String("addr", ":8080", "address to listen on (env: WIFISNAP_ADDR)")
	serveCmd := &ffcli.Command{
		Name:      "serve",
		ShortHelp: "Serve the extraction and matching API over HTTP",
		FlagSet:   serveFlagSet,
		Options:   []ff.Option{ff.WithEnvVarPrefix("WIFISNAP")},
		Exec: func(ctx context.Context, args []string) error {
			return server.New(*serveAddr, resolver, logger).Run(ctx)
		},
	}

	var root *ffcli.Command
	root = &ffcli.Command{
		ShortUsage:  "wifisnap [flags] <subcommand> [args...]",
		FlagSet:     rootFlagSet,
		Options:     []ff.Option{ff.WithEnvVarPrefix("WIFISNAP")},
		Subcommands: []*ffcli.Command{extractCmd, scanCmd, matchCmd, resolveCmd, connectCmd, serveCmd},
		Exec: func(ctx context.Context, args []string) error {
			root.FlagSet.Usage()
			return nil
		},
	}

	// Parse flags using ff to get the root flags before any subcommand runs.
	// root.ParseAndRun will parse them again, but that's fine.
	err := ff.Parse(rootFlagSet, os.Args[1:],
		ff.WithEnvVarPrefix("WIFISNAP"),
		ff.WithIgnoreUndefined(true), // Ignore subcommand flags for now
	)
	if err != nil {
		if err == flag.ErrHelp {
			// ff.Parse doesn't print usage on ErrHelp, so we do it manually.
			root.FlagSet.Usage()
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *version {
		fmt.Println(Version)
		os.Exit(0)
	}

	if *theme != "" {
		if err := tui.LoadThemeFile(*theme); err != nil {
			fmt.Fprintf(os.Stderr, "error loading theme: %v\n", err)
			os.Exit(1)
		}
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	var closers []func() error
	if *debugLog {
		debugHandler, closeDebug, err := debug.Open(debug.FileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening debug log: %v\n", err)
			os.Exit(1)
		}
		handler = debug.Tee{A: handler, B: debugHandler}
		closers = append(closers, closeDebug)
	}
	logger = wifilog.Init(handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if *tracePath != "" {
		shutdown, err := startTracing(*tracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error starting tracing: %v\n", err)
			os.Exit(1)
		}
		closers = append(closers, shutdown)
	}

	b, err = GetBackend(logger)
	if err != nil {
		logger.Info("no wifi backend, network names will not be verified", "error", err)
		b = nil
	}

	engine, closeOCR := GetOCR(logger)
	closers = append(closers, closeOCR)

	resolver, err = cfg.newResolver(b, engine, logger)
	if err == nil {
		err = root.ParseAndRun(ctx, os.Args[1:])
	}
	stop()

	// Close in reverse so the debug log sees everything.
	for i := len(closers) - 1; i >= 0; i-- {
		if cerr := closers[i](); cerr != nil {
			logger.Debug("cleanup failed", "error", cerr)
		}
	}

	if err != nil {
		if kind := wifi.Kind(err); kind != "" {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		if errors.Is(err, errCancelled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// startTracing writes spans to path until the returned function is called.
func startTracing(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	shutdown, err := telemetry.InitTracer(f, Version)
	if err != nil {
		f.Close()
		return nil, err
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Join(shutdown(ctx), f.Close())
	}, nil
}
