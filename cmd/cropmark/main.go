// Command cropmark places each page of a trade-format manuscript PDF,
// unscaled, at the center of an A4 sheet, stamped with crop marks at the trim
// boundary and a footer carrying the run timestamp, source filename and
// absolute page number. The result is a camera-ready review copy that keeps
// the manuscript's metadata.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/galleyproof/cropmark/internal/compose"
	"github.com/galleyproof/cropmark/internal/config"
	"github.com/galleyproof/cropmark/internal/geom"
	"github.com/galleyproof/cropmark/internal/overlay"
)

func main() {
	settings := config.Load()

	output := flag.String("o", "", "path for the output PDF (required)")
	size := flag.String("size", "trade", "trim size of the input manuscript")
	fontPath := flag.String("font", settings.FontPath, "TrueType font for the footer text")
	workers := flag.Int("workers", settings.Workers, "pages composed concurrently")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *output == "" || flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *output, *size, *fontPath, *workers); err != nil {
		slog.Error("Composition failed.", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: cropmark -o OUTPUT [-size trade] [-font PATH] [-workers N] INPUT\n")
	flag.PrintDefaults()
}

func run(input, output, size, fontPath string, workers int) error {
	trim, ok := geom.TrimSizes[size]
	if !ok {
		return fmt.Errorf("unknown paper size %q, supported: %s", size, supportedSizes())
	}

	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input manuscript %s not found", input)
		}
		return fmt.Errorf("failed to access input manuscript: %w", err)
	}

	tmpl, err := overlay.New(fontPath, trim)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input manuscript: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := pdfapi.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return fmt.Errorf("failed to parse input manuscript: %w", err)
	}

	out, err := compose.ComposeManuscript(ctx, filepath.Base(input), time.Now(), tmpl, compose.Options{Workers: workers})
	if err != nil {
		return err
	}

	if err := pdfapi.OptimizeContext(out); err != nil {
		return fmt.Errorf("failed to optimize output: %w", err)
	}

	w, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := pdfapi.WriteContext(out, w); err != nil {
		w.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize output file: %w", err)
	}

	slog.Info("Review copy written.", "output", output, "pages", out.PageCount)
	return nil
}

func supportedSizes() string {
	names := make([]string, 0, len(geom.TrimSizes))
	for name := range geom.TrimSizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
