// Package geom holds the page-placement math: fixed paper dimensions and the
// translation that centers a content box on the target sheet. Everything is
// expressed in PDF points (1 inch = 72 pt).
package geom

import (
	"errors"
	"fmt"
)

// Size is a width/height pair in points.
type Size struct {
	Width  float64
	Height float64
}

// Offset is a translation in points, applied to page content via a `cm`
// operator.
type Offset struct {
	X float64
	Y float64
}

// Fixed dimensions. The output sheet is always A4; the trim size defaults to
// trade format (6" x 9").
var (
	A4    = Size{Width: 595.27559, Height: 841.88976} // 210mm x 297mm
	Trade = Size{Width: 432, Height: 648}             // 6" x 9"
)

// TrimSizes maps the names accepted by the -size flag to trim dimensions.
var TrimSizes = map[string]Size{
	"trade": Trade,
}

// ErrOversizedContent marks a content box that does not fit the target sheet
// on at least one axis. Content is never scaled or cropped to fit.
var ErrOversizedContent = errors.New("content box exceeds target sheet")

// OversizedContentError carries the offending dimensions.
type OversizedContentError struct {
	Box   Size
	Sheet Size
}

func (e *OversizedContentError) Error() string {
	return fmt.Sprintf("%s: %.2fx%.2f pt does not fit %.2fx%.2f pt",
		ErrOversizedContent, e.Box.Width, e.Box.Height, e.Sheet.Width, e.Sheet.Height)
}

func (e *OversizedContentError) Unwrap() error { return ErrOversizedContent }

// Center returns the translation that places box centered on sheet. The box
// must fit the sheet on both axes.
func Center(box, sheet Size) (Offset, error) {
	if box.Width > sheet.Width || box.Height > sheet.Height {
		return Offset{}, &OversizedContentError{Box: box, Sheet: sheet}
	}
	return Offset{
		X: (sheet.Width - box.Width) / 2,
		Y: (sheet.Height - box.Height) / 2,
	}, nil
}
