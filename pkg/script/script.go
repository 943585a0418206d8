// Package script drives a document from JavaScript. A Runner binds the
// transaction builder's surface into a goja runtime so edit sequences
// (fixtures, migrations, scripted tests) can be written as small scripts
// instead of Go code.
package script

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/coreseekdev/stilus/pkg/delta"
	"github.com/coreseekdev/stilus/pkg/document"
	"github.com/coreseekdev/stilus/pkg/selection"
)

// Runner executes edit scripts against one document.
//
// The script globals, each committing its own transaction:
//
//	insert(text, attrs?)        insertAt(at, text, attrs?)
//	block(type?)                blockAt(at, type?)
//	convert(type)               convertAt(at, type)
//	replace(text)               replaceAt(at, text)
//	format(attrs)               formatAt(at, n, attrs)
//	erase(n?)                   eraseAt(at, n)
//	clear()
//
// plus accessors: select(start, end), caret(x), text(), length(), delta().
// ("delete" is a JavaScript keyword, hence erase.)
type Runner struct {
	vm  *goja.Runtime
	doc *document.Document
}

// NewRunner binds a runtime to the document.
func NewRunner(doc *document.Document) *Runner {
	r := &Runner{vm: goja.New(), doc: doc}
	r.bind()
	return r
}

// Run executes a script and returns its completion value.
func (r *Runner) Run(src string) (goja.Value, error) {
	return r.vm.RunString(src)
}

// VM exposes the underlying runtime for embedders that want to add their
// own bindings.
func (r *Runner) VM() *goja.Runtime {
	return r.vm
}

func (r *Runner) transact(build func(tr *document.Transaction)) error {
	return r.doc.Transact(func(tr *document.Transaction) bool {
		build(tr)
		return false
	})
}

func attrsOf(v map[string]interface{}) delta.Attributes {
	if v == nil {
		return nil
	}
	return delta.Attributes(v)
}

func (r *Runner) bind() {
	vm := r.vm

	_ = vm.Set("insert", func(s string, attrs map[string]interface{}) error {
		return r.transact(func(tr *document.Transaction) { tr.Insert(s, attrsOf(attrs)) })
	})
	_ = vm.Set("insertAt", func(at int, s string, attrs map[string]interface{}) error {
		return r.transact(func(tr *document.Transaction) { tr.InsertAt(at, s, attrsOf(attrs)) })
	})
	_ = vm.Set("block", func(bt string) error {
		return r.transact(func(tr *document.Transaction) { tr.Block(delta.BlockType(bt), nil) })
	})
	_ = vm.Set("blockAt", func(at int, bt string) error {
		return r.transact(func(tr *document.Transaction) { tr.BlockAt(at, delta.BlockType(bt), nil) })
	})
	_ = vm.Set("convert", func(bt string) error {
		return r.transact(func(tr *document.Transaction) { tr.Convert(delta.BlockType(bt), nil) })
	})
	_ = vm.Set("convertAt", func(at int, bt string) error {
		return r.transact(func(tr *document.Transaction) { tr.ConvertAt(at, delta.BlockType(bt), nil) })
	})
	_ = vm.Set("replace", func(s string) error {
		return r.transact(func(tr *document.Transaction) { tr.Replace(s, nil) })
	})
	_ = vm.Set("replaceAt", func(at int, s string) error {
		return r.transact(func(tr *document.Transaction) { tr.ReplaceAt(at, s, nil) })
	})
	_ = vm.Set("format", func(attrs map[string]interface{}) error {
		return r.transact(func(tr *document.Transaction) { tr.Format(attrsOf(attrs)) })
	})
	_ = vm.Set("formatAt", func(at, n int, attrs map[string]interface{}) error {
		return r.transact(func(tr *document.Transaction) { tr.FormatAt(at, n, attrsOf(attrs)) })
	})
	_ = vm.Set("erase", func(n int) error {
		if n <= 0 {
			n = 1
		}
		return r.transact(func(tr *document.Transaction) { tr.Delete(n) })
	})
	_ = vm.Set("eraseAt", func(at, n int) error {
		return r.transact(func(tr *document.Transaction) { tr.DeleteAt(at, n) })
	})
	_ = vm.Set("clear", func() error {
		return r.transact(func(tr *document.Transaction) { tr.Clear() })
	})
	_ = vm.Set("select", func(start, end int) {
		r.doc.SetSelection(selection.New(start, end))
	})
	_ = vm.Set("caret", func(x int) {
		r.doc.SetSelection(selection.Collapsed(x))
	})
	_ = vm.Set("text", func() string {
		return Text(r.doc)
	})
	_ = vm.Set("length", func() int {
		return r.doc.Length()
	})
	_ = vm.Set("delta", func() interface{} {
		out := make([]map[string]interface{}, 0, len(r.doc.Delta()))
		for _, e := range r.doc.Delta() {
			m := map[string]interface{}{"length": e.Length()}
			if e.IsBlock() {
				m["insert"] = map[string]interface{}{"block": string(e.Block)}
			} else {
				m["insert"] = e.Text
			}
			if !e.Attributes.IsEmpty() {
				m["attributes"] = map[string]interface{}(e.Attributes)
			}
			out = append(out, m)
		}
		return out
	})
}

// Text flattens a document to plain text, rendering block markers as
// newlines.
func Text(doc *document.Document) string {
	var b strings.Builder
	for _, e := range doc.Delta() {
		if e.IsBlock() {
			b.WriteString("\n")
		} else {
			b.WriteString(e.Text)
		}
	}
	return b.String()
}
