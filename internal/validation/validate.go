// Package validation holds the request schemas and the decoder that enforces them.
//
// A schema is a struct of Field values. Presence and nullability come from the
// `schema` tag (required, nullable, default=<literal>); fields tagged secret
// never echo their value in issues. Value rules come from the
// `validate` tag and are checked with go-playground/validator on present,
// non-null values only.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vaughan-dsouza/alramy/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		if r, ok := fl.Field().Interface().(models.Role); ok {
			return r.Valid()
		}
		return models.Role(fl.Field().String()).Valid()
	})
	// Any hyphenated UUID, in either case.
	_ = v.RegisterValidation("uuid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
	return v
}

type spec struct {
	name     string
	required bool
	nullable bool
	secret   bool
	def      *string
	rules    string
}

func parseSpec(sf reflect.StructField) spec {
	s := spec{name: sf.Name, rules: sf.Tag.Get("validate")}
	if tag := sf.Tag.Get("json"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			s.name = name
		}
	}
	for _, opt := range strings.Split(sf.Tag.Get("schema"), ",") {
		switch {
		case opt == "required":
			s.required = true
		case opt == "nullable":
			s.nullable = true
		case opt == "secret":
			s.secret = true
		case strings.HasPrefix(opt, "default="):
			lit := strings.TrimPrefix(opt, "default=")
			s.def = &lit
		}
	}
	return s
}

type boundField struct {
	spec
	field
}

// fields walks the schema, descending into embedded structs.
func fields(dst any) ([]boundField, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("validation: expected pointer to struct, got %T", dst)
	}
	var out []boundField
	collect(rv.Elem(), &out)
	return out, nil
}

func collect(s reflect.Value, out *[]boundField) {
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := s.Field(i)
		if f, ok := fv.Addr().Interface().(field); ok {
			*out = append(*out, boundField{spec: parseSpec(sf), field: f})
			continue
		}
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			collect(fv, out)
		}
	}
}

// Validate checks presence, nullability and value rules, then applies defaults.
// On failure the schema is left untouched by defaults.
func Validate(dst any) error {
	fs, err := fields(dst)
	if err != nil {
		return err
	}
	return run(fs, nil)
}

func run(fs []boundField, pre []Issue) error {
	issues := pre
	skip := make(map[string]bool, len(pre))
	for _, is := range pre {
		skip[is.Path] = true
	}
	for _, f := range fs {
		if skip[f.name] {
			continue
		}
		set, null := f.state()
		switch {
		case !set:
			if f.required && f.def == nil {
				issues = append(issues, requiredIssue(f.name))
			}
		case null:
			if !f.nullable {
				issues = append(issues, notNullIssue(f.name))
			}
		case f.rules != "":
			if err := validate.Var(f.value(), f.rules); err != nil {
				var verrs validator.ValidationErrors
				if !errors.As(err, &verrs) {
					return fmt.Errorf("validation: %s: %w", f.name, err)
				}
				issues = append(issues, fromFieldErrors(f.spec, verrs)...)
			}
		}
	}
	if len(issues) > 0 {
		return &Error{Issues: issues}
	}
	for _, f := range fs {
		if set, _ := f.state(); !set && f.def != nil {
			if err := f.applyDefault(*f.def); err != nil {
				return fmt.Errorf("validation: default for %s: %w", f.name, err)
			}
		}
	}
	return nil
}

// Decode parses a JSON object into the schema and validates it.
// Unknown keys are ignored.
func Decode(data []byte, dst any) error {
	fs, err := fields(dst)
	if err != nil {
		return err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return &Error{Issues: []Issue{{Rule: "type", Param: "object", Message: "body must be a JSON object"}}}
	}
	var pre []Issue
	for _, f := range fs {
		f.reset()
		raw, ok := obj[f.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.field); err != nil {
			f.reset()
			pre = append(pre, typeIssue(f.spec, f.kind(), string(raw)))
		}
	}
	return run(fs, pre)
}

// DecodeQuery fills the schema from query parameters. Empty parameters count as absent.
func DecodeQuery(values url.Values, dst any) error {
	fs, err := fields(dst)
	if err != nil {
		return err
	}
	var pre []Issue
	for _, f := range fs {
		f.reset()
		v := values.Get(f.name)
		if v == "" {
			continue
		}
		raw := []byte(v)
		if f.kind() == reflect.String {
			raw, _ = json.Marshal(v)
		}
		if err := json.Unmarshal(raw, f.field); err != nil {
			f.reset()
			pre = append(pre, typeIssue(f.spec, f.kind(), v))
		}
	}
	return run(fs, pre)
}
