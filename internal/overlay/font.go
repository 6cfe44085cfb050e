package overlay

import (
	"fmt"
	"math"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FooterFont is the monospaced font used for the footer line, together with
// the metrics the layout math needs. When program is nil the built-in Courier
// core font is used and nothing is embedded.
type FooterFont struct {
	name      string // PostScript name, becomes BaseFont
	program   []byte // raw TrueType data, nil for the core-font fallback
	charWidth float64 // advance of one glyph at 1 pt font size
	ascent    int
	descent   int // negative, PDF convention
	capHeight int
	bbox      [4]int
}

// CharWidth reports the advance of a single glyph at the given font size.
// The footer font is monospaced, so one value covers every glyph.
func (f *FooterFont) CharWidth(size float64) float64 {
	return f.charWidth * size
}

// Name reports the font's PostScript name.
func (f *FooterFont) Name() string { return f.name }

// CourierFallback returns the built-in Courier core font. Courier is
// guaranteed available in every PDF viewer, so a missing font file never
// fails a run. Metrics are the standard Adobe core font metrics.
func CourierFallback() *FooterFont {
	return &FooterFont{
		name:      "Courier",
		charWidth: 0.6,
		ascent:    629,
		descent:   -157,
		capHeight: 562,
	}
}

// LoadFooterFont reads and parses a TrueType font file, extracting the
// metrics needed for the FontDescriptor and for right-aligning the page
// number.
func LoadFooterFont(path string) (*FooterFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}

	fnt, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	var buf sfnt.Buffer
	upem := fnt.UnitsPerEm()
	// Requesting metrics at ppem == unitsPerEm yields values in font units.
	ppem := fixed.Int26_6(upem)

	name, err := fnt.Name(&buf, sfnt.NameIDPostScript)
	if err != nil || name == "" {
		name = "FooterFont"
	}

	// Use '0' as the representative glyph for the monospace advance.
	charWidth := 0.6
	if gi, err := fnt.GlyphIndex(&buf, '0'); err == nil && gi != 0 {
		if adv, err := fnt.GlyphAdvance(&buf, gi, ppem, font.HintingNone); err == nil {
			charWidth = float64(adv) / float64(upem)
		}
	}

	met, err := fnt.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("failed to read font metrics: %w", err)
	}

	ff := &FooterFont{
		name:      name,
		program:   data,
		charWidth: charWidth,
		ascent:    int(met.Ascent),
		descent:   -int(met.Descent),
		capHeight: int(met.CapHeight),
	}

	// Bounds are y-down; flip for the PDF FontBBox.
	if b, err := fnt.Bounds(&buf, ppem, font.HintingNone); err == nil {
		ff.bbox = [4]int{int(b.Min.X), -int(b.Max.Y), int(b.Max.X), -int(b.Min.Y)}
	}

	return ff, nil
}

// embed registers the font objects into the document and returns an indirect
// reference to the font dictionary. Called once per run.
func (f *FooterFont) embed(ctx *model.Context) (*types.IndirectRef, error) {
	if f.program == nil {
		// Core font, nothing to embed.
		d := types.Dict(map[string]types.Object{
			"Type":     types.Name("Font"),
			"Subtype":  types.Name("Type1"),
			"BaseFont": types.Name(f.name),
			"Encoding": types.Name("WinAnsiEncoding"),
		})
		return ctx.IndRefForNewObject(d)
	}

	sd, err := ctx.NewStreamDictForBuf(f.program)
	if err != nil {
		return nil, fmt.Errorf("failed to create font stream: %w", err)
	}
	sd.InsertInt("Length1", len(f.program))
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("failed to encode font stream: %w", err)
	}
	fileRef, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return nil, err
	}

	descriptor := types.Dict(map[string]types.Object{
		"Type":        types.Name("FontDescriptor"),
		"FontName":    types.Name(f.name),
		"Flags":       types.Integer(32), // symbolic
		"FontBBox":    types.NewIntegerArray(f.bbox[0], f.bbox[1], f.bbox[2], f.bbox[3]),
		"ItalicAngle": types.Integer(0),
		"Ascent":      types.Integer(f.ascent),
		"Descent":     types.Integer(f.descent),
		"CapHeight":   types.Integer(f.capHeight),
		"StemV":       types.Integer(80),
		"FontFile2":   *fileRef,
	})
	descRef, err := ctx.IndRefForNewObject(descriptor)
	if err != nil {
		return nil, err
	}

	w := types.Integer(int(math.Round(f.charWidth * 1000)))
	widths := make(types.Array, 0, lastChar-firstChar+1)
	for i := firstChar; i <= lastChar; i++ {
		widths = append(widths, w)
	}

	d := types.Dict(map[string]types.Object{
		"Type":           types.Name("Font"),
		"Subtype":        types.Name("TrueType"),
		"BaseFont":       types.Name(f.name),
		"FontDescriptor": *descRef,
		"Encoding":       types.Name("WinAnsiEncoding"),
		"FirstChar":      types.Integer(firstChar),
		"LastChar":       types.Integer(lastChar),
		"Widths":         widths,
	})
	return ctx.IndRefForNewObject(d)
}

const (
	firstChar = 32
	lastChar  = 126
)
