// Package testutil builds minimal, uncompressed PDF documents in memory so
// tests exercise the composition engine against real parsed documents
// instead of mocks. Cross-reference offsets are computed while writing, so
// the output is always structurally valid.
package testutil

import (
	"bytes"
	"fmt"
	"sort"
)

// Page describes one page of a generated test document.
type Page struct {
	Width   float64
	Height  float64
	Content string
	// FontNames adds core-font resources under the given names, for
	// resource-collision scenarios.
	FontNames []string
	// NoContents omits the Contents entry entirely (a blank page).
	NoContents bool
	// Filter names a stream filter in the content dictionary without
	// encoding Content, yielding an undecodable stream.
	Filter string
}

// PDF assembles a document with the given pages and, when info is non-empty,
// an information dictionary.
func PDF(pages []Page, info map[string]string) []byte {
	var buf bytes.Buffer
	offsets := map[int]int{}

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// Object layout: 1 catalog, 2 pages, then per page a page dict and a
	// content stream, then an optional shared font, then an optional info
	// dict.
	pageObj := func(i int) int { return 3 + 2*i }
	contObj := func(i int) int { return 4 + 2*i }
	next := 3 + 2*len(pages)

	fontObj := 0
	for _, p := range pages {
		if len(p.FontNames) > 0 {
			fontObj = next
			next++
			break
		}
	}
	infoObj := 0
	if len(info) > 0 {
		infoObj = next
		next++
	}
	size := next

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	var kids bytes.Buffer
	for i := range pages {
		if i > 0 {
			kids.WriteByte(' ')
		}
		fmt.Fprintf(&kids, "%d 0 R", pageObj(i))
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), len(pages)))

	for i, p := range pages {
		res := "<< >>"
		if len(p.FontNames) > 0 {
			var fonts bytes.Buffer
			for _, name := range p.FontNames {
				fmt.Fprintf(&fonts, "/%s %d 0 R ", name, fontObj)
			}
			res = fmt.Sprintf("<< /Font << %s>> >>", fonts.String())
		}

		d := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources %s", p.Width, p.Height, res)
		if !p.NoContents {
			d += fmt.Sprintf(" /Contents %d 0 R", contObj(i))
		}
		d += " >>"
		writeObj(pageObj(i), d)

		content := p.Content
		sd := fmt.Sprintf("/Length %d", len(content))
		if p.Filter != "" {
			sd += fmt.Sprintf(" /Filter /%s", p.Filter)
		}
		writeObj(contObj(i), fmt.Sprintf("<< %s >>\nstream\n%s\nendstream", sd, content))
	}

	if fontObj != 0 {
		writeObj(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	}

	if infoObj != 0 {
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var d bytes.Buffer
		d.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&d, " /%s (%s)", k, escape(info[k]))
		}
		d.WriteString(" >>")
		writeObj(infoObj, d.String())
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f\r\n")
	for num := 1; num < size; num++ {
		fmt.Fprintf(&buf, "%010d %05d n\r\n", offsets[num], 0)
	}

	buf.WriteString("trailer\n")
	if infoObj != 0 {
		fmt.Fprintf(&buf, "<< /Size %d /Root 1 0 R /Info %d 0 R >>\n", size, infoObj)
	} else {
		fmt.Fprintf(&buf, "<< /Size %d /Root 1 0 R >>\n", size)
	}
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes()
}

func escape(s string) string {
	var b bytes.Buffer
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
