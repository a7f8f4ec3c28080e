package domain

import (
	"encoding/json"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// coerceMode controls how strictly loosely-typed values are converted.
type coerceMode int

const (
	// modeCreate rejects anything that does not fit the record shape.
	modeCreate coerceMode = iota
	// modePatch additionally accepts null to clear a field.
	modePatch
	// modeDocument reads stored documents; values that do not fit a known
	// field are kept as extra attributes instead of failing.
	modeDocument
)

// dateLayouts are tried in order when a date arrives as a string. The short
// forms are what HTML date and datetime-local inputs submit.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DecodeFood coerces a request body into a new record. The identifier key is
// ignored because identifiers are assigned by the store.
func DecodeFood(raw map[string]any) (*Food, error) {
	food := &Food{}
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if key == FieldID {
			continue
		}
		if err := food.set(key, raw[key], modeCreate); err != nil {
			return nil, err
		}
	}

	if err := food.Validate(); err != nil {
		return nil, err
	}
	return food, nil
}

// DecodeFoodPatch coerces a request body into a set of field updates.
func DecodeFoodPatch(raw map[string]any) (FoodPatch, error) {
	fields := make(map[string]any, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if key == FieldID {
			continue
		}
		value, err := coerceValue(key, raw[key], modePatch)
		if err != nil {
			return FoodPatch{}, err
		}
		fields[key] = value
	}

	if len(fields) == 0 {
		return FoodPatch{}, ErrEmptyUpdate
	}
	return FoodPatch{fields: fields}, nil
}

// FoodFromDocument rebuilds a record from a stored wire-keyed document.
// Store adapters convert driver-specific value types (dates, numbers) to Go
// types before calling it.
func FoodFromDocument(id FoodID, doc map[string]any) (*Food, error) {
	food := &Food{ID: id}
	for _, key := range slices.Sorted(maps.Keys(doc)) {
		if key == FieldID {
			continue
		}
		if err := food.set(key, doc[key], modeDocument); err != nil {
			return nil, err
		}
	}
	return food, nil
}

// set assigns one wire-keyed value to the record.
func (f *Food) set(key string, value any, mode coerceMode) error {
	if value == nil && mode == modeDocument {
		return nil
	}

	coerced, err := coerceValue(key, value, mode)
	if err != nil {
		if mode == modeDocument {
			f.setExtra(key, value)
			return nil
		}
		return err
	}

	switch key {
	case FieldQuantity:
		f.Quantity = coerced.(int)
	case FieldExpiredDate:
		f.ExpiredDate = coerced.(time.Time)
	case FieldRequestDate:
		f.RequestDate = coerced.(time.Time)
	default:
		field := f.stringField(key)
		if field == nil {
			f.setExtra(key, coerced)
			return nil
		}
		*field = coerced.(string)
	}
	f.markPresent(key)
	return nil
}

func (f *Food) setExtra(key string, value any) {
	if f.Extra == nil {
		f.Extra = make(map[string]any)
	}
	f.Extra[key] = value
}

func (f *Food) stringField(key string) *string {
	switch key {
	case FieldName:
		return &f.Name
	case FieldImage:
		return &f.Image
	case FieldPickupLocation:
		return &f.PickupLocation
	case FieldAdditionalNotes:
		return &f.AdditionalNotes
	case FieldStatus:
		return &f.Status
	case FieldDonorName:
		return &f.DonorName
	case FieldDonorImage:
		return &f.DonorImage
	case FieldDonorEmail:
		return &f.DonorEmail
	case FieldRequestedBy:
		return &f.RequestedBy
	default:
		return nil
	}
}

// coerceValue converts a single loosely-typed value to the type its key
// requires. Known string fields yield string, foodQuantity yields int and
// date fields yield time.Time. Other keys yield a normalized value. In a
// patch, null yields nil for every key but expiredDate, which marks the
// field for removal.
func coerceValue(key string, value any, mode coerceMode) (any, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	if value == nil {
		if key == FieldExpiredDate {
			return nil, NewFieldError(key, "must be a date")
		}
		if mode == modePatch {
			return nil, nil
		}
	}

	switch key {
	case FieldQuantity:
		return coerceInt(key, value)
	case FieldExpiredDate, FieldRequestDate:
		return coerceTime(key, value)
	}

	if (&Food{}).stringField(key) != nil {
		s, ok := value.(string)
		if !ok {
			return nil, NewFieldError(key, "must be a string")
		}
		return s, nil
	}

	if mode == modeDocument {
		if n, ok := normalizeNumber(value); ok {
			return n, nil
		}
		return value, nil
	}
	return coerceExtra(key, value)
}

// checkKey rejects keys that document stores would interpret as operators
// or nested paths.
func checkKey(key string) error {
	if key == "" {
		return NewFieldError("(empty)", "is not a valid field name")
	}
	if strings.HasPrefix(key, "$") || strings.Contains(key, ".") {
		return NewFieldError(key, "is not a valid field name")
	}
	return nil
}

// coerceExtra accepts any JSON value for an extra attribute. Nested keys
// follow the same rules as top-level keys and numbers are normalized at every
// depth.
func coerceExtra(key string, value any) (any, error) {
	if value == nil {
		return nil, NewFieldError(key, "must not be null")
	}
	return normalizeExtra(key, value)
}

func normalizeExtra(key string, value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for _, nested := range slices.Sorted(maps.Keys(v)) {
			if err := checkKey(nested); err != nil {
				return nil, NewFieldError(key+"."+nested, "is not a valid field name")
			}
			n, err := normalizeExtra(key, v[nested])
			if err != nil {
				return nil, err
			}
			out[nested] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			n, err := normalizeExtra(key, item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	if n, ok := normalizeNumber(value); ok {
		return n, nil
	}
	return nil, NewFieldError(key, "has an unsupported type")
}

func coerceInt(key string, value any) (int, error) {
	if s, ok := value.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, NewFieldError(key, "must be a whole number")
		}
		return n, nil
	}

	n, ok := normalizeNumber(value)
	if !ok {
		return 0, NewFieldError(key, "must be a whole number")
	}
	i, ok := n.(int64)
	if !ok || i > math.MaxInt32 || i < math.MinInt32 {
		return 0, NewFieldError(key, "must be a whole number")
	}
	return int(i), nil
}

func coerceTime(key string, value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		if !v.IsZero() {
			return v.UTC(), nil
		}
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil && !t.IsZero() {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, NewFieldError(key, "must be a date")
}

// normalizeNumber maps every numeric representation to int64 when the value
// is integral and to float64 otherwise.
func normalizeNumber(value any) (any, bool) {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v), true
		}
		return v, true
	case float32:
		return normalizeNumber(float64(v))
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return nil, false
}

// jsonTagName reports struct fields to the validator by their wire name.
func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
