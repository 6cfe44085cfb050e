// Package compose is the page-composition engine: it places each manuscript
// page, unscaled, at the center of an A4 sheet, merges it with the crop-mark
// and footer overlay, and reassembles the document with its metadata intact.
package compose

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/galleyproof/cropmark/internal/geom"
	"github.com/galleyproof/cropmark/internal/metadata"
	"github.com/galleyproof/cropmark/internal/overlay"
)

// Timestamp layout shared by every footer of a run.
const timestampLayout = "2006-01-02 15:04:05 MST"

// Options tunes a composition run.
type Options struct {
	// Workers bounds the number of pages composed concurrently. Values
	// below 1 mean sequential composition.
	Workers int
}

// ComposeManuscript rewrites every page of the parsed manuscript into a
// composed review page and returns the document ready for serialization.
// The source document's own structure serves as the output's: page order and
// count are preserved exactly, and the information dictionary is carried
// over verbatim.
//
// Per-page composition runs on a bounded worker pool; results are committed
// strictly in absolute page order, so the ordering invariant holds
// regardless of scheduling. Any page failure aborts the run; there is no
// partial output.
func ComposeManuscript(ctx *model.Context, sourceFilename string, runTimestamp time.Time, tmpl *overlay.Template, opts Options) (*model.Context, error) {
	logCtx := slog.With("source", sourceFilename)

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to determine page count: %w", err)
	}

	info := metadata.Extract(ctx)
	logCtx.Info("Manuscript loaded.", "pages", ctx.PageCount, "metadataEntries", info.Len())

	fontRef, err := tmpl.EmbedFont(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to embed footer font: %w", err)
	}

	c := &composer{
		tmpl:      tmpl,
		sheet:     geom.A4,
		timestamp: runTimestamp.Format(timestampLayout),
		filename:  sourceFilename,
	}

	// A zero-page manuscript is degenerate but valid: the output is an
	// equally empty, structurally valid document.
	if ctx.PageCount == 0 {
		logCtx.Warn("Manuscript has no pages, producing empty output.")
		if err := metadata.Attach(ctx, info); err != nil {
			logCtx.Warn("Failed to attach metadata, continuing without it.", "error", err)
		}
		return ctx, nil
	}

	pages, err := collectSourcePages(ctx)
	if err != nil {
		return nil, err
	}

	composed := make([]*ComposedPage, len(pages))
	var g errgroup.Group
	g.SetLimit(max(1, opts.Workers))
	for i := range pages {
		g.Go(func() error {
			cp, err := c.compose(pages[i])
			if err != nil {
				return err
			}
			composed[i] = cp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, cp := range composed {
		if err := commit(ctx, pages[i], cp, fontRef, c.sheet); err != nil {
			return nil, pageErr(cp.Page, err)
		}
	}
	logCtx.Info("Pages composed.", "pages", len(composed))

	if err := metadata.Attach(ctx, info); err != nil {
		logCtx.Warn("Failed to attach metadata, continuing without it.", "error", err)
	}

	return ctx, nil
}

// collectSourcePages snapshots every page's geometry, decoded content and
// resources in absolute order. Runs sequentially: the underlying document
// model is not safe for concurrent dereferencing.
func collectSourcePages(ctx *model.Context) ([]sourcePage, error) {
	pages := make([]sourcePage, 0, ctx.PageCount)
	for n := 1; n <= ctx.PageCount; n++ {
		d, _, inh, err := ctx.PageDict(n, false)
		if err != nil || d == nil {
			return nil, pageErr(n, fmt.Errorf("failed to read page dictionary: %w", orMissing(err)))
		}

		box := inh.MediaBox
		if box == nil {
			box = inh.CropBox
		}
		if box == nil {
			return nil, pageErr(n, errors.New("page has no media box"))
		}

		var content []byte
		if _, ok := d["Contents"]; ok {
			content, err = ctx.PageContent(d, n)
			if err != nil {
				return nil, pageErr(n, fmt.Errorf("%w: %v", ErrUnreadableContentStream, err))
			}
		}

		resources := inh.Resources
		pages = append(pages, sourcePage{
			number:    n,
			dict:      d,
			box:       geom.Size{Width: box.Width(), Height: box.Height()},
			boxLL:     geom.Offset{X: box.LL.X, Y: box.LL.Y},
			content:   content,
			resources: resources,
			fontNames: fontNamesOf(ctx, resources),
		})
	}
	return pages, nil
}

func orMissing(err error) error {
	if err == nil {
		return errors.New("not found")
	}
	return err
}
