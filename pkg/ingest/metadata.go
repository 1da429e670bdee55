package ingest

import (
	"fmt"
	"math"
	"strconv"

	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// fields reads typed values out of a front-matter map, recording a
// FieldError for every value of the wrong shape. Absent keys are not
// errors here; required-ness is checked by playbook.Validate.
type fields struct {
	kind   playbook.Kind
	id     string
	source string
	meta   map[string]any
	errs   playbook.ValidationErrors
}

func newFields(kind playbook.Kind, doc Document) *fields {
	f := &fields{kind: kind, source: doc.Path, meta: doc.Meta}
	f.id = f.str("id")
	return f
}

func (f *fields) fail(field, want string, got any) {
	f.errs = append(f.errs, playbook.FieldError{
		Kind:   f.kind,
		ID:     f.id,
		Source: f.source,
		Field:  field,
		Rule:   "type",
		Param:  want,
		Value:  got,
	})
}

func (f *fields) has(key string) bool {
	v, ok := f.meta[key]
	return ok && v != nil
}

// str reads a scalar. Numbers and booleans are rendered as text.
func (f *fields) str(key string) string {
	v, ok := f.meta[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := scalarString(v)
	if !ok {
		f.fail(key, "a string", v)
	}
	return s
}

// strs reads a sequence of scalars; absent means empty.
func (f *fields) strs(key string) []string {
	return f.strsAt(key, f.meta[key])
}

func (f *fields) strsAt(field string, v any) []string {
	out := []string{}
	if v == nil {
		return out
	}
	list, ok := v.([]any)
	if !ok {
		f.fail(field, "a sequence of strings", v)
		return out
	}
	for i, item := range list {
		s, ok := scalarString(item)
		if !ok {
			f.fail(fmt.Sprintf("%s[%d]", field, i), "a string", item)
			continue
		}
		out = append(out, s)
	}
	return out
}

// num reads a number; absent means nil.
func (f *fields) num(key string) *float64 {
	return f.numAt(key, f.meta[key])
}

func (f *fields) numAt(field string, v any) *float64 {
	if v == nil {
		return nil
	}
	var n float64
	switch x := v.(type) {
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint64:
		n = float64(x)
	case float64:
		n = x
	default:
		f.fail(field, "a number", v)
		return nil
	}
	// JSON has no encoding for NaN or the infinities.
	if math.IsNaN(n) || math.IsInf(n, 0) {
		f.fail(field, "a finite number", v)
		return nil
	}
	return &n
}

func (f *fields) relations(key string) []playbook.Relation {
	out := []playbook.Relation{}
	list, ok := f.list(key)
	if !ok {
		return out
	}
	for i, item := range list {
		at := fmt.Sprintf("%s[%d]", key, i)
		m, ok := item.(map[string]any)
		if !ok {
			f.fail(at, "a mapping", item)
			continue
		}
		id, _ := f.scalarAt(at+".id", m["id"])
		typ, _ := f.scalarAt(at+".type", m["type"])
		kind, ok := playbook.ParseKind(typ)
		if !ok {
			// Left as written so validation reports the bad value.
			kind = playbook.Kind(typ)
		}
		out = append(out, playbook.Relation{
			ID:     id,
			Type:   kind,
			Weight: f.numAt(at+".weight", m["weight"]),
		})
	}
	return out
}

func (f *fields) stages(key string) []playbook.Stage {
	out := []playbook.Stage{}
	list, ok := f.list(key)
	if !ok {
		return out
	}
	for i, item := range list {
		at := fmt.Sprintf("%s[%d]", key, i)
		m, ok := item.(map[string]any)
		if !ok {
			f.fail(at, "a mapping", item)
			continue
		}
		name, _ := f.scalarAt(at+".name", m["name"])
		out = append(out, playbook.Stage{
			Name:      name,
			Goals:     f.strsAt(at+".goals", m["goals"]),
			Artifacts: f.strsAt(at+".artifacts", m["artifacts"]),
		})
	}
	return out
}

func (f *fields) list(key string) ([]any, bool) {
	v := f.meta[key]
	if v == nil {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		f.fail(key, "a sequence", v)
		return nil, false
	}
	return list, true
}

func (f *fields) scalarAt(field string, v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := scalarString(v)
	if !ok {
		f.fail(field, "a string", v)
	}
	return s, ok
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}
