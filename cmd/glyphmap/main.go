package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"glyphmap/internal/config"
	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
	"glyphmap/internal/raster"
	"glyphmap/internal/server"
	"glyphmap/internal/trace"
	"glyphmap/internal/tui"
)

func main() {
	var (
		cfgPath   = flag.String("config", os.Getenv("GLYPHMAP_CONFIG"), "TOML config file")
		world     = flag.String("world", "", "GeoJSON or WKT backdrop for the map layout")
		table     = flag.String("table", "", "table to read from a SQLite dataset")
		exportDir = flag.String("export", "", "write PNG frames to this directory instead of starting the terminal UI")
		frames    = flag.Int("frames", 0, "number of frames to export")
		cycle     = flag.Int("cycle", 0, "advance the layout every n exported frames")
		serve     = flag.String("serve", "", "serve the HTTP API on this address")
		traceFile = flag.String("trace", "", "CSV or KML trace to animate (requires -export)")
		buildings = flag.String("buildings", "", "GeoJSON or WKT footprints drawn under the trace")
		fps       = flag.Int("fps", 0, "terminal frames per second")
		level     = flag.String("log-level", "", "debug, info, warn or error")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: glyphmap [flags] [dataset.csv|dataset.db]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if flag.NArg() > 0 {
		cfg.Data = flag.Arg(0)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.World, *world)
	set(&cfg.DBTable, *table)
	set(&cfg.ExportDir, *exportDir)
	set(&cfg.Addr, *serve)
	set(&cfg.LogLevel, *level)
	if *frames > 0 {
		cfg.Frames = *frames
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *traceFile != "":
		err = runTrace(ctx, cfg, *traceFile, *buildings)
	case cfg.ExportDir != "":
		err = runExport(ctx, cfg, *cycle)
	case *serve != "":
		err = runServer(ctx, cfg)
	default:
		err = runTUI(cfg)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setupLogger(cfg config.Config, w io.Writer) *slog.Logger {
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	glyph.SetLogger(l)
	return l
}

func loadDataset(ctx context.Context, cfg config.Config) ([]glyph.Record, glyph.Stats, error) {
	if cfg.Data == "" {
		return nil, glyph.Stats{}, errors.New("no dataset: pass a CSV or SQLite file")
	}
	rows, err := geom.Load(ctx, cfg.Data, cfg.DBTable)
	if err != nil {
		return nil, glyph.Stats{}, err
	}
	return glyph.Ingest(rows)
}

func loadBackdrop(path string) ([]geom.Polygon, error) {
	if path == "" {
		return nil, nil
	}
	polys, _, err := geom.LoadBackdrop(path)
	return polys, err
}

func runExport(ctx context.Context, cfg config.Config, cycle int) error {
	l := setupLogger(cfg, os.Stderr)
	records, stats, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}
	backdrop, err := loadBackdrop(cfg.World)
	if err != nil {
		return err
	}
	r, err := raster.New(cfg.Canvas, raster.WithFontSize(cfg.FontSize), raster.WithLogger(l))
	if err != nil {
		return err
	}
	defer r.Close()
	e := glyph.NewEngine(records, stats, glyph.WithCanvas(cfg.Canvas), glyph.WithLogger(l))
	_, err = r.Export(ctx, e, backdrop, cfg.ExportDir, cfg.Frames, raster.CycleLayouts(cycle))
	return err
}

func runTrace(ctx context.Context, cfg config.Config, path, buildings string) error {
	l := setupLogger(cfg, os.Stderr)
	if cfg.ExportDir == "" {
		return errors.New("-trace needs -export DIR")
	}
	pts, err := geom.LoadTraceFile(path)
	if err != nil {
		return err
	}
	tr, err := trace.New(pts, trace.DefaultLayout())
	if err != nil {
		return err
	}
	footprints, err := loadBackdrop(buildings)
	if err != nil {
		return err
	}
	r, err := raster.New(cfg.Canvas, raster.WithFontSize(cfg.FontSize), raster.WithLogger(l))
	if err != nil {
		return err
	}
	defer r.Close()
	n := cfg.Frames
	if n <= 0 || n > tr.Len() {
		n = tr.Len()
	}
	_, err = r.ExportTrace(ctx, tr, footprints, cfg.ExportDir, n)
	return err
}

func runServer(ctx context.Context, cfg config.Config) error {
	l := setupLogger(cfg, os.Stderr)
	records, stats, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}
	backdrop, err := loadBackdrop(cfg.World)
	if err != nil {
		return err
	}
	r, err := raster.New(cfg.Canvas, raster.WithFontSize(cfg.FontSize), raster.WithLogger(l))
	if err != nil {
		return err
	}
	defer r.Close()
	s := server.New(records, stats,
		server.WithCanvas(cfg.Canvas),
		server.WithBackdrop(backdrop),
		server.WithRenderer(r),
		server.WithLogger(l),
	)
	return s.Serve(ctx, cfg.Addr)
}

func runTUI(cfg config.Config) error {
	// stderr belongs to the terminal UI; log to a file only when asked
	logger := glyph.Logger()
	if path := os.Getenv("GLYPHMAP_LOG"); path != "" {
		f, err := tea.LogToFile(path, "glyphmap")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = setupLogger(cfg, f)
	}
	m := tui.New(tui.Options{
		Data:    cfg.Data,
		World:   cfg.World,
		DBTable: cfg.DBTable,
		FPS:     cfg.FPS,
		Canvas:  cfg.Canvas,
		Logger:  logger,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
