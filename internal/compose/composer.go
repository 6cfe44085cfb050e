package compose

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/galleyproof/cropmark/internal/geom"
	"github.com/galleyproof/cropmark/internal/overlay"
)

// sourcePage is everything composition needs from one manuscript page,
// captured up front so the per-page work can run off a read-only snapshot.
type sourcePage struct {
	number    int        // absolute 1-based position in the page sequence
	dict      types.Dict // the live page dictionary
	box       geom.Size  // MediaBox dimensions
	boxLL     geom.Offset
	content   []byte     // decoded content stream, nil for a blank page
	resources types.Dict // effective (possibly inherited) resources
	fontNames map[string]bool
}

// ComposedPage is the staged result of composing one source page: the merged
// content stream operators and the namespaced name the overlay font must be
// registered under in the page's resources.
type ComposedPage struct {
	Page     int
	Ops      []byte
	FontName string
}

// composer turns source pages into composed pages for a single run. All
// fields are fixed once the run starts, so compose may be called from
// multiple goroutines.
type composer struct {
	tmpl      *overlay.Template
	sheet     geom.Size
	timestamp string
	filename  string
}

// compose merges one source page with the overlay. The centering offset is
// the outermost transform, the source draws first and the overlay fragment
// last so crop marks and footer always render on top.
func (c *composer) compose(p sourcePage) (*ComposedPage, error) {
	off, err := geom.Center(p.box, c.sheet)
	if err != nil {
		return nil, pageErr(p.number, err)
	}

	frag := c.tmpl.Render(overlay.Footer{
		Timestamp:  c.timestamp,
		Filename:   c.filename,
		PageNumber: p.number,
	})
	fontName := namespacedName(frag.FontName, p.fontNames)

	var b bytes.Buffer
	b.WriteString("q\n")
	fmt.Fprintf(&b, "1 0 0 1 %.5f %.5f cm\n", off.X-p.boxLL.X, off.Y-p.boxLL.Y)
	b.Write(p.content)
	b.WriteString("\nQ\n")
	b.Write(rewriteResourceName(frag.Ops, frag.FontName, fontName))

	return &ComposedPage{Page: p.number, Ops: b.Bytes(), FontName: fontName}, nil
}

// namespacedName prefixes a template resource name until it no longer clashes
// with any source-defined name. Deterministic: the same inputs always yield
// the same name.
func namespacedName(base string, taken map[string]bool) string {
	name := "Tpl" + base
	for taken[name] {
		name = "Tpl" + name
	}
	return name
}

// rewriteResourceName rewrites references to a resource name inside fragment
// operators. Fragment names are always followed by a space, so a plain token
// replacement is exact.
func rewriteResourceName(ops []byte, from, to string) []byte {
	if from == to {
		return ops
	}
	return bytes.ReplaceAll(ops, []byte("/"+from+" "), []byte("/"+to+" "))
}

// commit installs a composed page into the document: the merged stream
// becomes the page's single content stream, the MediaBox grows to the target
// sheet, and the overlay font joins the page's resources under its
// namespaced name. Must run sequentially; it registers new objects.
func commit(ctx *model.Context, p sourcePage, cp *ComposedPage, fontRef *types.IndirectRef, sheet geom.Size) error {
	sd, err := ctx.NewStreamDictForBuf(cp.Ops)
	if err != nil {
		return fmt.Errorf("failed to create content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("failed to encode content stream: %w", err)
	}
	contentRef, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return err
	}

	p.dict["Contents"] = *contentRef
	p.dict["MediaBox"] = types.RectForWidthAndHeight(0, 0, sheet.Width, sheet.Height).Array()
	p.dict.Delete("CropBox")

	res := types.Dict{}
	if p.resources != nil {
		if clone, ok := p.resources.Clone().(types.Dict); ok {
			res = clone
		}
	}
	fonts := types.Dict{}
	if o, ok := res["Font"]; ok {
		if d, err := ctx.DereferenceDict(o); err == nil && d != nil {
			if clone, ok := d.Clone().(types.Dict); ok {
				fonts = clone
			}
		}
	}
	fonts[cp.FontName] = *fontRef
	res["Font"] = fonts
	p.dict["Resources"] = res

	return nil
}

// fontNamesOf collects the font resource names a page already defines, for
// collision avoidance when the overlay font joins them.
func fontNamesOf(ctx *model.Context, resources types.Dict) map[string]bool {
	names := map[string]bool{}
	if resources == nil {
		return names
	}
	o, ok := resources["Font"]
	if !ok {
		return names
	}
	d, err := ctx.DereferenceDict(o)
	if err != nil || d == nil {
		return names
	}
	for k := range d {
		names[k] = true
	}
	return names
}
