// Package runtimedebug builds a JSON debug projection of a runtime
// Value graph: it is not the (nonexistent) serialization surface of
// the language itself, only a diagnostic view consumed by test
// fixtures and the cmd/corescope "dump" command, the way the teacher's
// `program.String()` AST dump (cmd/dwscript/cmd/run.go's --dump-ast
// flag) gives a developer a readable snapshot of otherwise opaque
// internal state.
package runtimedebug

import (
	"fmt"
	"sort"

	"github.com/cwbudde/ecmacore/internal/runtime"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Dump renders v as an indented JSON string. Cyclic object graphs are
// broken by a seen-set: a back-reference is rendered as the string
// marker `"$ref:<address>"` rather than recursing forever.
func Dump(ctx *runtime.Context, v runtime.Value) string {
	d := &dumper{ctx: ctx, seen: map[*runtime.Object]bool{}}
	raw := d.encode("", []byte("{}"), v)
	return string(pretty.Pretty(raw))
}

type dumper struct {
	ctx  *runtime.Context
	seen map[*runtime.Object]bool
}

func (d *dumper) set(doc []byte, path string, v any) []byte {
	out, err := sjson.SetBytes(doc, path, v)
	if err != nil {
		// sjson only fails on malformed paths, which we never construct
		// dynamically from untrusted input; treat it as a bug, not a
		// reportable runtime error.
		panic(fmt.Sprintf("runtimedebug: sjson.SetBytes(%q): %v", path, err))
	}
	return out
}

func (d *dumper) encode(path string, doc []byte, v runtime.Value) []byte {
	if v == nil {
		return d.set(doc, orRoot(path), nil)
	}
	switch v.ValueKind() {
	case runtime.KindUndefined:
		return d.set(doc, orRoot(path), "undefined")
	case runtime.KindNull:
		return d.set(doc, orRoot(path), nil)
	case runtime.KindBoolean:
		return d.set(doc, orRoot(path), runtime.ToBoolean(v))
	case runtime.KindNumber:
		n, _ := runtime.ToNumber(d.ctx, v)
		return d.set(doc, orRoot(path), n)
	case runtime.KindString:
		s, _ := runtime.ToString(d.ctx, v)
		return d.set(doc, orRoot(path), s)
	case runtime.KindBigInt:
		s, _ := runtime.ToString(d.ctx, v)
		return d.set(doc, orRoot(path), s+"n")
	case runtime.KindSymbol:
		return d.set(doc, orRoot(path), fmt.Sprintf("%v", v))
	case runtime.KindObject:
		obj, _ := runtime.AsObject(v)
		return d.encodeObject(path, doc, obj)
	default:
		return d.set(doc, orRoot(path), "<unknown>")
	}
}

func orRoot(path string) string {
	if path == "" {
		return "value"
	}
	return path
}

func (d *dumper) encodeObject(path string, doc []byte, o *runtime.Object) []byte {
	prefix := path
	if prefix != "" {
		prefix += "."
	}

	if d.seen[o] {
		return d.set(doc, orRoot(path), fmt.Sprintf("$ref:%p", o))
	}
	d.seen[o] = true

	doc = d.set(doc, prefix+"kind", o.Kind.String())

	if o.Kind == runtime.ObjectKindArray {
		length := runtime.ArrayLength(o)
		doc = d.set(doc, prefix+"length", length)
		for i := uint32(0); i < length; i++ {
			elemPath := fmt.Sprintf("%selements.%d", prefix, i)
			if elem, ok := runtime.ArrayGetElement(o, i); ok {
				doc = d.encode(elemPath, doc, elem)
			} else {
				doc = d.set(doc, elemPath, "<hole>")
			}
		}
		return doc
	}

	if o.Kind == runtime.ObjectKindTypedArray {
		doc = d.set(doc, prefix+"elementKind", runtime.TypedArrayElementKind(o).Name())
		doc = d.set(doc, prefix+"length", runtime.TypedArrayLength(o))
		return doc
	}

	keys := o.OwnKeys(false, true)
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, key := range keys {
		val, err := o.Get(d.ctx, key, o)
		if err != nil {
			doc = d.set(doc, prefix+"properties."+sjsonSafe(key.String()), fmt.Sprintf("<threw: %s>", err.Message))
			continue
		}
		doc = d.encode(prefix+"properties."+sjsonSafe(key.String()), doc, val)
	}
	return doc
}

// sjsonSafe escapes the ".", "*" and "?" path characters sjson treats
// specially, since property names are arbitrary strings.
func sjsonSafe(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r == '.' || r == '*' || r == '?' {
			out = append(out, '\\')
		}
		out = append(out, string(r)...)
	}
	return string(out)
}
