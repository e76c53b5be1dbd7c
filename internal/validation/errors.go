package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Issue describes one violated rule.
type Issue struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error is returned whenever a schema rejects its input.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Path+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsError unwraps err into a *Error.
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func requiredIssue(path string) Issue {
	return Issue{Path: path, Rule: "required", Message: "is required"}
}

func notNullIssue(path string) Issue {
	return Issue{Path: path, Rule: "notnull", Message: "must not be null"}
}

func typeIssue(s spec, k reflect.Kind, raw string) Issue {
	is := Issue{Path: s.name, Rule: "type", Param: typeName(k), Message: "must be " + article(typeName(k))}
	if !s.secret {
		is.Value = raw
	}
	return is
}

func fromFieldErrors(s spec, errs validator.ValidationErrors) []Issue {
	issues := make([]Issue, 0, len(errs))
	for _, fe := range errs {
		is := Issue{
			Path:    s.name,
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		}
		if !s.secret {
			is.Value = fe.Value()
		}
		issues = append(issues, is)
	}
	return issues
}

func message(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "role":
		return "must be one of ADMIN, MODERATOR, USER"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
		}
		return "must be at least " + fe.Param()
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}
	return "failed the " + fe.Tag() + " rule"
}

func typeName(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	}
	return k.String()
}

func article(s string) string {
	if strings.IndexByte("aeiou", s[0]) >= 0 {
		return "an " + s
	}
	return "a " + s
}
