package playbook

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so errors match the artifact the reader sees.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError is a single schema violation on one entity.
type FieldError struct {
	Kind Kind
	ID   string
	// Source is the document the entity came from, when known.
	Source string
	Field  string
	Rule   string
	Param  string
	Value  any
}

func (e FieldError) Error() string {
	var b strings.Builder
	if e.Kind == "" {
		b.WriteString("dataset")
	} else {
		fmt.Fprintf(&b, "%s %q", e.Kind, e.ID)
		if e.Source != "" {
			fmt.Fprintf(&b, " (%s)", e.Source)
		}
	}
	fmt.Fprintf(&b, ": field %q ", e.Field)
	switch e.Rule {
	case "required":
		b.WriteString("is required")
	case "oneof":
		fmt.Fprintf(&b, "must be one of [%s], got %q", e.Param, fmt.Sprint(e.Value))
	case "min":
		fmt.Fprintf(&b, "must be >= %s, got %v", e.Param, e.Value)
	case "max":
		fmt.Fprintf(&b, "must be <= %s, got %v", e.Param, e.Value)
	case "unique":
		b.WriteString("duplicates another entity of the same kind")
	case "type":
		fmt.Fprintf(&b, "must be %s, got %T", e.Param, e.Value)
	case "datetime":
		fmt.Fprintf(&b, "must be a %s date, got %q", e.Param, fmt.Sprint(e.Value))
	default:
		fmt.Fprintf(&b, "failed %s", e.Rule)
		if e.Param != "" {
			fmt.Fprintf(&b, "=%s", e.Param)
		}
	}
	return b.String()
}

// ValidationErrors collects every violation found in one pass.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Is reports ValidationErrors as an invalid dataset.
func (v ValidationErrors) Is(target error) bool {
	return target == apperrors.ErrInvalidDataset
}

// Validate checks the whole dataset: required fields, enum members,
// numeric bounds, date format and id uniqueness within each kind.
func Validate(d *Dataset) error {
	if d == nil {
		return ValidationErrors{{Field: "dataset", Rule: "required"}}
	}

	var errs ValidationErrors
	errs = append(errs, structErrors("", "", d)...)

	seen := make(map[Kind]map[string]bool, len(kinds))
	for _, e := range d.Entities() {
		k, id := e.EntityKind(), e.EntityID()
		errs = append(errs, structErrors(k, id, e)...)

		if id == "" {
			continue
		}
		if seen[k] == nil {
			seen[k] = make(map[string]bool)
		}
		if seen[k][id] {
			errs = append(errs, FieldError{Kind: k, ID: id, Field: "id", Rule: "unique", Value: id})
		}
		seen[k][id] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func structErrors(kind Kind, id string, s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Kind: kind, ID: id, Field: "*", Rule: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Kind:  kind,
			ID:    id,
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace,
// "Workflow.stages[0].name" becomes "stages[0].name".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
