package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
)

var errInvalidOptions = errors.New("options must be a list or a comma-separated string")

func fieldTypes() []interface{} {
	types := make([]interface{}, 0, len(domain.FieldTypes))
	for _, t := range domain.FieldTypes {
		types = append(types, string(t))
	}
	return types
}

var fieldNameRule = validation.By(func(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	name, _ := v.(string)
	if name == "" {
		return nil
	}
	return domain.ValidateFieldName(name)
})

// Options accepts either ["a","b"] or "a, b".
type Options []string

func (o *Options) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*o = list
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errInvalidOptions
	}
	*o = domain.ParseOptions(s)
	return nil
}

type FormField struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Type     string  `json:"type"`
	Required bool    `json:"required"`
	Options  Options `json:"options,omitempty"`
}

func (f *FormField) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.Name, validation.Required, fieldNameRule),
		validation.Field(&f.Label, validation.Required, validation.Length(1, domain.MaxFieldLabelLength)),
		validation.Field(&f.Type, validation.Required, validation.In(fieldTypes()...)),
	)
}

func (f *FormField) ToDomain() domain.FormField {
	return domain.FormField{
		Name:     strings.TrimSpace(f.Name),
		Label:    f.Label,
		Type:     domain.FieldType(f.Type),
		Required: f.Required,
		Options:  []string(f.Options),
	}
}

func validateFormFields(fields []FormField) error {
	for i := range fields {
		if err := fields[i].Validate(); err != nil {
			return fmt.Errorf("form_fields[%d]: %w", i, err)
		}
	}
	return nil
}

func formFieldsToDomain(fields []FormField) []domain.FormField {
	if fields == nil {
		return nil
	}
	out := make([]domain.FormField, 0, len(fields))
	for i := range fields {
		out = append(out, fields[i].ToDomain())
	}
	return out
}

// CreateEventRequest leaves FormFields nil when the key is absent, which
// gives the event the default fields. An explicit [] creates an event with
// no fields.
type CreateEventRequest struct {
	Title           string      `json:"title"`
	Date            string      `json:"date" format:"YYYY-MM-DD"`
	Time            string      `json:"time"`
	Location        string      `json:"location"`
	ImageURL        string      `json:"image_url"`
	Description     string      `json:"description"`
	Deadline        string      `json:"deadline" format:"YYYY-MM-DD"`
	MaxParticipants *int        `json:"max_participants"`
	FormFields      []FormField `json:"form_fields"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.Required, validation.Date(domain.DayLayout)),
		validation.Field(&req.Deadline, validation.Date(domain.DayLayout)),
		validation.Field(&req.MaxParticipants, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	return validateFormFields(req.FormFields)
}

func (req *CreateEventRequest) ToDomain() domain.Event {
	maxParticipants := domain.DefaultMaxParticipants
	if req.MaxParticipants != nil {
		maxParticipants = *req.MaxParticipants
	}

	return domain.Event{
		Title:           req.Title,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		ImageURL:        req.ImageURL,
		Description:     req.Description,
		Deadline:        req.Deadline,
		MaxParticipants: maxParticipants,
		FormFields:      formFieldsToDomain(req.FormFields),
	}
}

type UpdateEventRequest struct {
	Title           *string      `json:"title"`
	Date            *string      `json:"date" format:"YYYY-MM-DD"`
	Time            *string      `json:"time"`
	Location        *string      `json:"location"`
	ImageURL        *string      `json:"image_url"`
	Description     *string      `json:"description"`
	Deadline        *string      `json:"deadline" format:"YYYY-MM-DD"`
	MaxParticipants *int         `json:"max_participants"`
	FormFields      *[]FormField `json:"form_fields"`
	IsOpen          *bool        `json:"is_open"`
}

func (req *UpdateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.NilOrNotEmpty, validation.Date(domain.DayLayout)),
		validation.Field(&req.Deadline, validation.Date(domain.DayLayout)),
		validation.Field(&req.MaxParticipants, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if req.FormFields != nil {
		return validateFormFields(*req.FormFields)
	}
	return nil
}

func (req *UpdateEventRequest) ToDomain() domain.EventPatch {
	patch := domain.EventPatch{
		Title:           req.Title,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		ImageURL:        req.ImageURL,
		Description:     req.Description,
		Deadline:        req.Deadline,
		MaxParticipants: req.MaxParticipants,
		IsOpen:          req.IsOpen,
	}
	if req.FormFields != nil {
		fields := formFieldsToDomain(*req.FormFields)
		if fields == nil {
			fields = []domain.FormField{}
		}
		patch.FormFields = &fields
	}
	return patch
}

type UpdateFormFieldRequest struct {
	Name     *string  `json:"name"`
	Label    *string  `json:"label"`
	Type     *string  `json:"type"`
	Required *bool    `json:"required"`
	Options  *Options `json:"options"`
}

func (req *UpdateFormFieldRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, fieldNameRule),
		validation.Field(&req.Label, validation.NilOrNotEmpty, validation.Length(1, domain.MaxFieldLabelLength)),
		validation.Field(&req.Type, validation.NilOrNotEmpty, validation.In(fieldTypes()...)),
	)
}

func (req *UpdateFormFieldRequest) ToDomain() domain.FormFieldPatch {
	patch := domain.FormFieldPatch{
		Name:     req.Name,
		Label:    req.Label,
		Required: req.Required,
	}
	if req.Type != nil {
		t := domain.FieldType(*req.Type)
		patch.Type = &t
	}
	if req.Options != nil {
		opts := []string(*req.Options)
		patch.Options = &opts
	}
	return patch
}
