package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"trackviz/internal/basemap"
	"trackviz/internal/canvas"
	"trackviz/internal/config"
	"trackviz/internal/geom"
	"trackviz/internal/logging"
	"trackviz/internal/metrics"
	"trackviz/internal/render"
	"trackviz/internal/tui"
)

const usage = `usage:
  trackviz positionfixes FILE [flags]
  trackviz triplegs FILE [--positionfixes FILE] [--staypoints FILE] [flags]
  trackviz staypoints FILE [--positionfixes FILE] [flags]
  trackviz config init [PATH]

FILE may be .csv, .geojson/.json, .kml or .wkt.
`

// options are the per-invocation inputs parsed from flags.
type options struct {
	configPath    string
	out           string
	osm           bool
	crs           string
	value         string
	positionfixes string
	staypoints    string
	radius        float64
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "config":
		return runConfig(args, stdout, stderr)
	case "positionfixes", "triplegs", "staypoints":
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	var opts options
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (default: search trackviz.yaml)")
	fs.StringVarP(&opts.out, "out", "o", "", "write a PNG here instead of opening the viewer")
	fs.BoolVar(&opts.osm, "osm", false, "draw an OpenStreetMap street basemap")
	fs.StringVar(&opts.crs, "crs", "", "CRS of the input files, e.g. EPSG:3857; overrides any CRS they declare")
	fs.StringVar(&opts.value, "value", "", "numeric column or property used for colouring")
	fs.Int("width", 0, "image width in pixels")
	fs.Int("height", 0, "image height in pixels")
	fs.String("overpass", "", "Overpass API endpoint")
	fs.String("cache", "", "basemap cache: none, memory or valkey")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("metrics", "", "write Prometheus metrics to this textfile on exit")
	if cmd != "positionfixes" {
		fs.StringVar(&opts.positionfixes, "positionfixes", "", "positionfix file drawn as context")
		fs.Float64Var(&opts.radius, "radius", 0, "staypoint radius in metres (default 5)")
	}
	if cmd == "triplegs" {
		fs.StringVar(&opts.staypoints, "staypoints", "", "staypoint file drawn as context")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "%s: expected exactly one input file\n\n%s", cmd, usage)
		return 2
	}

	cfg, err := config.Load(opts.configPath, fs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := logging.Setup(stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = execute(ctx, cmd, fs.Arg(0), opts, cfg, logger)
	if cfg.Metrics.Textfile != "" {
		if merr := metrics.WriteTextfile(cfg.Metrics.Textfile); merr != nil {
			logger.Error("write metrics", "path", cfg.Metrics.Textfile, "err", merr)
		}
	}
	if err != nil {
		logger.Error("render failed", "command", cmd, "err", err)
		return 1
	}
	return 0
}

// execute loads the inputs and runs one renderer.
func execute(ctx context.Context, cmd, path string, opts options, cfg *config.Config, logger *slog.Logger) error {
	r, closeFn, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	lo := geom.LoadOptions{CRS: geom.CRS(opts.crs), ValueColumn: opts.value}
	in, err := geom.Load(path, lo)
	if err != nil {
		return err
	}
	pfs, err := loadOptional(opts.positionfixes, lo)
	if err != nil {
		return err
	}
	sps, err := loadOptional(opts.staypoints, lo)
	if err != nil {
		return err
	}
	logger.Debug("inputs loaded", "file", path, "geometries", in.Len(), "crs", in.CRS)

	switch cmd {
	case "positionfixes":
		return r.Positionfixes(ctx, in, render.PositionfixOptions{Output: opts.out, Basemap: opts.osm})
	case "staypoints":
		return r.Staypoints(ctx, in, render.StaypointOptions{
			Output:        opts.out,
			Positionfixes: pfs,
			Radius:        opts.radius,
			Basemap:       opts.osm,
		})
	default:
		return r.Triplegs(ctx, in, render.TriplegOptions{
			Output:        opts.out,
			Positionfixes: pfs,
			Staypoints:    sps,
			Radius:        opts.radius,
			Basemap:       opts.osm,
		})
	}
}

func loadOptional(path string, lo geom.LoadOptions) (*geom.Collection, error) {
	if path == "" {
		return nil, nil
	}
	c, err := geom.Load(path, lo)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// newRenderer wires the configured basemap provider, cache and display.
func newRenderer(cfg *config.Config, logger *slog.Logger) (*render.Renderer, func(), error) {
	op := basemap.NewOverpass(cfg.Basemap.Endpoint, cfg.Basemap.Timeout)
	op.CacheTTL = cfg.Basemap.CacheTTL
	op.Logger = logger
	closeFn := func() {}
	switch cfg.Basemap.Cache {
	case "memory":
		op.Cache = basemap.NewMemoryCache()
	case "valkey":
		vc, err := basemap.NewValkeyCache(cfg.Basemap.ValkeyAddr)
		if err != nil {
			return nil, nil, err
		}
		op.Cache = vc
		closeFn = vc.Close
	}
	return &render.Renderer{
		Basemap:    op,
		Display:    tui.Display{},
		Normalizer: geom.Normalizer{Logger: logger},
		Raster: canvas.RasterOptions{
			Width:    cfg.Render.Width,
			Height:   cfg.Render.Height,
			Scale:    cfg.Render.Scale,
			Margin:   cfg.Render.Margin,
			NoMargin: cfg.Render.Margin == 0,
		},
		Logger: logger,
	}, closeFn, nil
}

func runConfig(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] != "init" || len(args) > 2 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	if len(args) == 1 {
		if err := config.WriteDefault(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	f, err := os.OpenFile(args[1], os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := config.WriteDefault(f); err != nil {
		f.Close()
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
