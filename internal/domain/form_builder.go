package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

var (
	ErrFieldIndexOutOfRange = errors.New("form field index out of range")
	ErrInvalidFieldName     = errors.New("field name must contain only letters, digits and underscores and not start with a digit")
	ErrInvalidFieldType     = errors.New("unknown form field type")
	ErrDuplicateFieldName   = errors.New("duplicate form field name")
)

const (
	NewFieldLabel       = "新欄位"
	MaxFieldLabelLength = 100
)

var (
	fieldNameExp       = regexp2.MustCompile(`^(?!\d)[A-Za-z0-9_]+$`, regexp2.None)
	invalidNameCharExp = regexp2.MustCompile(`[^A-Za-z0-9_]+`, regexp2.None)
)

type FormFieldPatch struct {
	Name     *string
	Label    *string
	Type     *FieldType
	Required *bool
	Options  *[]string
}

// NewFormField is the blank field the builder appends.
func NewFormField(now time.Time) FormField {
	return FormField{
		Name:     fmt.Sprintf("field_%d", now.UnixMilli()),
		Label:    NewFieldLabel,
		Type:     FieldText,
		Required: false,
	}
}

func ValidateFieldName(name string) error {
	ok, err := fieldNameExp.MatchString(name)
	if err != nil {
		return fmt.Errorf("fieldNameExp.MatchString -> %w", err)
	}
	if !ok {
		return ErrInvalidFieldName
	}
	return nil
}

// SanitizeFieldName turns free text such as "dietary restrictions" into a name
// that passes ValidateFieldName. It returns "" when no usable characters remain.
func SanitizeFieldName(s string) string {
	s = strings.TrimSpace(s)
	if ValidateFieldName(s) == nil {
		return s
	}

	name, err := invalidNameCharExp.Replace(s, "_", -1, -1)
	if err != nil {
		return ""
	}
	name = strings.Trim(name, "_")
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "f_" + name
	}
	return name
}

// UniqueFieldName returns base, or base_2, base_3, ... when base is taken.
func UniqueFieldName(fields []FormField, base string) string {
	taken := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		taken[f.Name] = struct{}{}
	}

	name := base
	for i := 2; ; i++ {
		if _, ok := taken[name]; !ok {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
}

// ValidateFormField checks the field at index against the rules and against
// the names of the other fields.
func ValidateFormField(fields []FormField, index int) error {
	if index < 0 || index >= len(fields) {
		return ErrFieldIndexOutOfRange
	}
	f := fields[index]
	if err := ValidateFieldName(f.Name); err != nil {
		return err
	}
	if !f.Type.Valid() {
		return ErrInvalidFieldType
	}
	for i, other := range fields {
		if i != index && other.Name == f.Name {
			return ErrDuplicateFieldName
		}
	}
	return nil
}

// ValidateFormFields checks names, types and name uniqueness. An empty list is valid.
func ValidateFormFields(fields []FormField) error {
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if err := ValidateFieldName(f.Name); err != nil {
			return fmt.Errorf("field %d %q: %w", i, f.Name, err)
		}
		if !f.Type.Valid() {
			return fmt.Errorf("field %d %q: %w", i, f.Name, ErrInvalidFieldType)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("field %d %q: %w", i, f.Name, ErrDuplicateFieldName)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// AddFormField appends f, suffixing its name if another field already has it.
func AddFormField(fields []FormField, f FormField) []FormField {
	f.Name = UniqueFieldName(fields, f.Name)
	out := make([]FormField, 0, len(fields)+1)
	out = append(out, fields...)
	return append(out, f)
}

func RemoveFormField(fields []FormField, index int) ([]FormField, error) {
	if index < 0 || index >= len(fields) {
		return nil, ErrFieldIndexOutOfRange
	}
	out := make([]FormField, 0, len(fields)-1)
	out = append(out, fields[:index]...)
	return append(out, fields[index+1:]...), nil
}

func UpdateFormField(fields []FormField, index int, p FormFieldPatch) ([]FormField, error) {
	if index < 0 || index >= len(fields) {
		return nil, ErrFieldIndexOutOfRange
	}
	out := append([]FormField(nil), fields...)
	f := out[index]
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Required != nil {
		f.Required = *p.Required
	}
	if p.Options != nil {
		f.Options = append([]string(nil), (*p.Options)...)
	}
	out[index] = f
	return out, nil
}

// ParseOptions splits a comma-separated option list, trimming each value.
// Blank entries are dropped.
func ParseOptions(s string) []string {
	parts := strings.Split(s, ",")
	opts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			opts = append(opts, p)
		}
	}
	return opts
}
