package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
)

var (
	ErrMissingCredential = errors.New("AI API key is missing, set it in the environment")
	ErrEmptyImportText   = errors.New("import text is required")
	ErrExtractionFailed  = errors.New("failed to extract events from text")
)

const (
	DefaultImportTime  = "TBD"
	defaultImageSeed   = "event"
	placeholderImageFn = "https://picsum.photos/seed/%s/600/400"
)

// EventDraft is one event as the extractor understood it. Zero values mean
// the text did not say.
type EventDraft struct {
	Title           string
	Date            string
	Time            string
	Location        string
	Description     string
	ImageKeyword    string
	Deadline        string
	MaxParticipants int
	CustomFields    []FieldSuggestion
}

type FieldSuggestion struct {
	Name    string
	Label   string
	Type    domain.FieldType
	Options []string
}

// EventExtractor turns free text into event drafts.
type EventExtractor interface {
	Extract(ctx context.Context, text string) ([]EventDraft, error)
}

type EventBatchStore interface {
	NewID() string
	AddEventsBatch(ctx context.Context, events []domain.Event) error
}

type ImportService struct {
	store     EventBatchStore
	extractor EventExtractor
}

func NewImportService(store EventBatchStore, extractor EventExtractor) *ImportService {
	return &ImportService{
		store:     store,
		extractor: extractor,
	}
}

// Import extracts events from text and appends all of them, or none.
func (s *ImportService) Import(ctx context.Context, text string) ([]domain.Event, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyImportText
	}

	drafts, err := s.extractor.Extract(ctx, text)
	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			return nil, ErrMissingCredential
		}
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	events := make([]domain.Event, 0, len(drafts))
	for _, d := range drafts {
		events = append(events, s.eventFromDraft(d))
	}
	if len(events) == 0 {
		return events, nil
	}

	if err = s.store.AddEventsBatch(ctx, events); err != nil {
		return nil, fmt.Errorf("s.store.AddEventsBatch -> %w", err)
	}

	return events, nil
}

func (s *ImportService) eventFromDraft(d EventDraft) domain.Event {
	e := domain.Event{
		ID:              s.store.NewID(),
		Title:           d.Title,
		Date:            d.Date,
		Time:            d.Time,
		Location:        d.Location,
		Description:     d.Description,
		Deadline:        d.Deadline,
		MaxParticipants: d.MaxParticipants,
		FormFields:      MergeSuggestedFields(d.CustomFields),
		IsOpen:          true,
	}

	if e.Time == "" {
		e.Time = DefaultImportTime
	}
	if e.Deadline == "" {
		e.Deadline = e.Date
	}
	if e.MaxParticipants <= 0 {
		e.MaxParticipants = domain.DefaultMaxParticipants
	}

	seed := strings.TrimSpace(d.ImageKeyword)
	if seed == "" {
		seed = defaultImageSeed
	}
	e.ImageURL = fmt.Sprintf(placeholderImageFn, url.PathEscape(seed))

	return e
}

// MergeSuggestedFields appends suggestions after the default fields. Names are
// sanitised to valid field names and suggestions whose name is already taken
// are skipped. Suggested fields are never required.
func MergeSuggestedFields(suggestions []FieldSuggestion) []domain.FormField {
	fields := domain.DefaultFormFields()
	taken := make(map[string]struct{}, len(fields)+len(suggestions))
	for _, f := range fields {
		taken[f.Name] = struct{}{}
	}

	for i, sg := range suggestions {
		name := domain.SanitizeFieldName(sg.Name)
		if name == "" {
			name = domain.UniqueFieldName(fields, fmt.Sprintf("custom_%d", i+1))
		}
		if _, ok := taken[name]; ok {
			continue
		}
		taken[name] = struct{}{}

		ft := sg.Type
		if !ft.Valid() {
			ft = domain.FieldText
		}
		fields = append(fields, domain.FormField{
			Name:     name,
			Label:    suggestedLabel(sg),
			Type:     ft,
			Required: false,
			Options:  sg.Options,
		})
	}

	return fields
}

func suggestedLabel(sg FieldSuggestion) string {
	label := strings.TrimSpace(sg.Label)
	if label == "" {
		label = strings.TrimSpace(sg.Name)
	}
	if label == "" {
		return domain.NewFieldLabel
	}
	if r := []rune(label); len(r) > domain.MaxFieldLabelLength {
		label = string(r[:domain.MaxFieldLabelLength])
	}
	return label
}
