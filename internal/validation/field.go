package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// Field holds one schema value together with two independent facts:
// whether the key was present in the input and whether it was an explicit null.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null field.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Null returns a present field holding an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Get returns the value and true when the field is present and non-null.
func (f Field[T]) Get() (T, bool) {
	if !f.Set || f.Null {
		var zero T
		return zero, false
	}
	return f.Value, true
}

// Ptr returns nil for absent or null fields.
func (f Field[T]) Ptr() *T {
	if v, ok := f.Get(); ok {
		return &v
	}
	return nil
}

// Or returns the value, or def when the field is absent or null.
func (f Field[T]) Or(def T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return def
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	var zero T
	f.Value = zero
	f.Set = true
	f.Null = false
	if string(b) == "null" {
		f.Null = true
		return nil
	}
	err := json.Unmarshal(b, &f.Value)
	if err != nil && isInt(f.kind()) {
		return setIntegral(reflect.ValueOf(&f.Value).Elem(), b, err)
	}
	return err
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// setIntegral accepts numbers such as 2.0 or 2e1 whose value is a whole
// number in range. Anything else keeps the original decode error.
func setIntegral(v reflect.Value, b []byte, orig error) error {
	var n json.Number
	if len(b) == 0 || b[0] == '"' {
		return orig
	}
	if err := json.Unmarshal(b, &n); err != nil {
		return orig
	}
	fl, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || fl != math.Trunc(fl) || fl < math.MinInt64 || fl >= math.MaxInt64 {
		return orig
	}
	if v.OverflowInt(int64(fl)) {
		return orig
	}
	v.SetInt(int64(fl))
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// field is what the schema walker needs from a Field of any type.
type field interface {
	state() (set, null bool)
	value() any
	kind() reflect.Kind
	reset()
	applyDefault(lit string) error
}

func (f Field[T]) state() (bool, bool) { return f.Set, f.Null }

func (f Field[T]) value() any { return f.Value }

func (f Field[T]) kind() reflect.Kind { return reflect.TypeOf((*T)(nil)).Elem().Kind() }

func (f *Field[T]) reset() { *f = Field[T]{} }

// applyDefault parses a tag literal. String-kinded fields take it verbatim,
// everything else is parsed as JSON.
func (f *Field[T]) applyDefault(lit string) error {
	raw := []byte(lit)
	if f.kind() == reflect.String {
		var err error
		if raw, err = json.Marshal(lit); err != nil {
			return err
		}
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}
