// Package overlay supplies the static review-copy overlay: crop marks at the
// trim boundary and a footer line carrying the run timestamp, the source
// filename and the absolute page number. The overlay is built once per
// process and rendered into an independent content fragment per page, so
// concurrent renders never share mutable state.
package overlay

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/galleyproof/cropmark/internal/geom"
)

// Drawing constants, in points.
const (
	markStrokeWidth = 0.5
	markLength      = 20.0
	markOffset      = 5.0 // gap between trim edge and crop mark

	footerMargin   = 28.35 // 1cm from the sheet edges
	footerFontSize = 10
)

// FontResourceName is the local name the fragment operators reference the
// footer font by, before namespacing.
const FontResourceName = "F1"

// Footer holds the per-page text substituted into the overlay.
type Footer struct {
	Timestamp  string
	Filename   string
	PageNumber int
}

// Fragment is one rendered overlay: raw content-stream operators plus the
// name of the single font resource they reference.
type Fragment struct {
	Ops      []byte
	FontName string
}

// Template is the shared, immutable overlay definition. Safe for concurrent
// use by Render.
type Template struct {
	font  *FooterFont
	sheet geom.Size
	trim  geom.Size
	marks []byte // crop-mark operators, fixed for the whole run
}

// New builds the overlay template for the given trim size on an A4 sheet,
// loading the footer font from fontPath. A missing or unparsable font file
// downgrades to the built-in Courier core font; the trim size not fitting the
// sheet is a configuration error.
func New(fontPath string, trim geom.Size) (*Template, error) {
	origin, err := geom.Center(trim, geom.A4)
	if err != nil {
		return nil, fmt.Errorf("trim size: %w", err)
	}

	fnt, err := LoadFooterFont(fontPath)
	if err != nil {
		slog.Warn("Footer font unavailable, falling back to Courier.", "path", fontPath, "error", err)
		fnt = CourierFallback()
	}

	return &Template{
		font:  fnt,
		sheet: geom.A4,
		trim:  trim,
		marks: cropMarkOps(origin, trim),
	}, nil
}

// Font exposes the footer font for layout math and embedding.
func (t *Template) Font() *FooterFont { return t.font }

// EmbedFont registers the footer font objects into the document. Called once
// per run; the returned reference is shared by every composed page.
func (t *Template) EmbedFont(ctx *model.Context) (*types.IndirectRef, error) {
	return t.font.embed(ctx)
}

// Render produces the overlay fragment for one page: crop marks, then the
// timestamp and filename at the bottom left, then the page number
// right-aligned at the bottom right, all on the same baseline. Render is a
// pure formatting operation; calling it twice with equal fields yields equal
// fragments.
func (t *Template) Render(f Footer) Fragment {
	var b bytes.Buffer
	b.Write(t.marks)

	left := fmt.Sprintf("%s  %s", f.Timestamp, f.Filename)
	t.text(&b, footerMargin, footerMargin, left)

	num := fmt.Sprintf("%d", f.PageNumber)
	width := float64(len(num)) * t.font.CharWidth(footerFontSize)
	t.text(&b, t.sheet.Width-footerMargin-width, footerMargin, num)

	return Fragment{Ops: b.Bytes(), FontName: FontResourceName}
}

func (t *Template) text(b *bytes.Buffer, x, y float64, s string) {
	b.WriteString("BT\n")
	fmt.Fprintf(b, "/%s %d Tf\n", FontResourceName, footerFontSize)
	fmt.Fprintf(b, "%.2f %.2f Td\n", x, y)
	b.WriteByte('(')
	b.Write(escapeLiteral(encodeWinAnsi(s)))
	b.WriteString(") Tj\nET\n")
}

// cropMarkOps draws two short marks at each corner of the trim rectangle,
// clear of the content area so they survive trimming.
func cropMarkOps(origin geom.Offset, trim geom.Size) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%.1f w\n0 G\n", markStrokeWidth)

	left := origin.X
	right := origin.X + trim.Width
	bottom := origin.Y
	top := origin.Y + trim.Height

	stroke := func(x1, y1, x2, y2 float64) {
		fmt.Fprintf(&b, "%.2f %.2f m\n%.2f %.2f l\nS\n", x1, y1, x2, y2)
	}

	// Bottom-left corner.
	stroke(left-markOffset-markLength, bottom, left-markOffset, bottom)
	stroke(left, bottom-markOffset-markLength, left, bottom-markOffset)
	// Bottom-right corner.
	stroke(right+markOffset, bottom, right+markOffset+markLength, bottom)
	stroke(right, bottom-markOffset-markLength, right, bottom-markOffset)
	// Top-left corner.
	stroke(left-markOffset-markLength, top, left-markOffset, top)
	stroke(left, top+markOffset, left, top+markOffset+markLength)
	// Top-right corner.
	stroke(right+markOffset, top, right+markOffset+markLength, top)
	stroke(right, top+markOffset, right, top+markOffset+markLength)

	return b.Bytes()
}

// winAnsi substitutes anything outside Windows-1252 rather than erroring; a
// footer must never fail a run over an exotic filename.
var winAnsi = encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())

func encodeWinAnsi(s string) []byte {
	b, err := winAnsi.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

// escapeLiteral escapes the characters PDF literal strings reserve.
func escapeLiteral(s []byte) []byte {
	var b bytes.Buffer
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.Bytes()
}
