package domain

type FieldType string

const (
	FieldText   FieldType = "text"
	FieldTel    FieldType = "tel"
	FieldEmail  FieldType = "email"
	FieldNumber FieldType = "number"
	FieldSelect FieldType = "select"
)

var FieldTypes = []FieldType{FieldText, FieldTel, FieldEmail, FieldNumber, FieldSelect}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// FormField describes one input collected from registrants. Options only
// apply to FieldSelect.
type FormField struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// Event JSON names follow the persisted document layout.
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	Location        string      `json:"location"`
	ImageURL        string      `json:"imageUrl"`
	Description     string      `json:"description"`
	Deadline        string      `json:"deadline"`
	MaxParticipants int         `json:"maxParticipants"`
	FormFields      []FormField `json:"formFields"`
	IsOpen          bool        `json:"isOpen"`
}

// EventPatch is a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title           *string
	Date            *string
	Time            *string
	Location        *string
	ImageURL        *string
	Description     *string
	Deadline        *string
	MaxParticipants *int
	FormFields      *[]FormField
	IsOpen          *bool
}

func (p EventPatch) IsEmpty() bool {
	return p == (EventPatch{})
}

func (e Event) Apply(p EventPatch) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Deadline != nil {
		e.Deadline = *p.Deadline
	}
	if p.MaxParticipants != nil {
		e.MaxParticipants = *p.MaxParticipants
	}
	if p.FormFields != nil {
		e.FormFields = make([]FormField, len(*p.FormFields))
		copy(e.FormFields, *p.FormFields)
	}
	if p.IsOpen != nil {
		e.IsOpen = *p.IsOpen
	}
	return e
}

const (
	DefaultMaxParticipants = 50
	DefaultImageURL        = "https://picsum.photos/seed/new/600/400"
)

// DefaultFormFields returns the name/phone/email fields every event starts with.
func DefaultFormFields() []FormField {
	return []FormField{
		{Name: "name", Label: "姓名", Type: FieldText, Required: true},
		{Name: "phone", Label: "聯絡電話", Type: FieldTel, Required: true},
		{Name: "email", Label: "電子信箱", Type: FieldEmail, Required: true},
	}
}
