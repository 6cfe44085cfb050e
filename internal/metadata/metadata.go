// Package metadata carries a document's information dictionary from source to
// output without interpreting it. Preservation is best-effort: a malformed or
// missing dictionary downgrades to "no metadata" and never fails a run.
package metadata

import (
	"log/slog"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// InfoDictionary is an opaque copy of a document information dictionary.
// Values are carried verbatim; absent fields stay absent.
type InfoDictionary struct {
	d types.Dict
}

// Empty reports whether there is no metadata to carry.
func (i InfoDictionary) Empty() bool { return len(i.d) == 0 }

// Len reports the number of metadata entries.
func (i InfoDictionary) Len() int { return len(i.d) }

// Keys returns the metadata keys in sorted order.
func (i InfoDictionary) Keys() []string {
	keys := make([]string, 0, len(i.d))
	for k := range i.d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the raw object stored under key.
func (i InfoDictionary) Value(key string) (types.Object, bool) {
	o, ok := i.d[key]
	return o, ok
}

// Extract copies the source document's information dictionary. An unreadable
// dictionary is logged and treated as empty.
func Extract(ctx *model.Context) InfoDictionary {
	if ctx.Info == nil {
		return InfoDictionary{}
	}
	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || d == nil {
		slog.Warn("Information dictionary unreadable, continuing without metadata.", "error", err)
		return InfoDictionary{}
	}
	clone, ok := d.Clone().(types.Dict)
	if !ok {
		slog.Warn("Information dictionary has unexpected shape, continuing without metadata.")
		return InfoDictionary{}
	}
	return InfoDictionary{d: clone}
}

// Attach writes the carried metadata into the output document as a fresh
// object and points the trailer at it. An empty carrier clears the output's
// information dictionary.
func Attach(ctx *model.Context, info InfoDictionary) error {
	if info.Empty() {
		ctx.Info = nil
		return nil
	}
	d, ok := info.d.Clone().(types.Dict)
	if !ok {
		ctx.Info = nil
		return nil
	}
	ref, err := ctx.IndRefForNewObject(d)
	if err != nil {
		return err
	}
	ctx.Info = ref
	return nil
}
