// Package ai adapts generative model providers to service.EventExtractor.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

const DefaultGeminiModel = "gemini-2.5-flash"

const extractPrompt = `Extract event information from the following text and format it into a structured JSON list.
The text may contain multiple events.

For 'imageKeyword', suggest one English keyword describing the event.
For 'deadline', if not specified, default to 1 day before the event date.
For 'maxParticipants', if not specified, default to 50.

Identify if any specific extra information is needed from the user based on the description (e.g. "dietary restrictions" for food events, "age" for kids events) and add them to 'customFields'.

Raw Text:
%s`

// GeminiConfig configures the Gemini extractor. An empty APIKey makes every
// Extract call fail with service.ErrMissingCredential.
type GeminiConfig struct {
	APIKey string
	Model  string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiExtractor struct {
	cfg       GeminiConfig
	generator func(ctx context.Context) (contentGenerator, error)
}

func NewGeminiExtractor(cfg GeminiConfig) *GeminiExtractor {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultGeminiModel
	}

	e := &GeminiExtractor{cfg: cfg}
	e.generator = e.newClient

	return e
}

func (e *GeminiExtractor) newClient(ctx context.Context) (contentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(e.cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient -> %w", err)
	}

	return client.Models, nil
}

func (e *GeminiExtractor) Extract(ctx context.Context, text string) ([]service.EventDraft, error) {
	if strings.TrimSpace(e.cfg.APIKey) == "" {
		zap.L().Error("gemini API key is missing")
		return nil, service.ErrMissingCredential
	}

	gen, err := e.generator(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := gen.GenerateContent(ctx, e.cfg.Model, genai.Text(fmt.Sprintf(extractPrompt, text)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   eventListSchema(),
	})
	if err != nil {
		zap.L().Error("gemini generate content failed", zap.Error(err))
		return nil, fmt.Errorf("gen.GenerateContent -> %w", err)
	}

	drafts, err := ParseDrafts(resp.Text())
	if err != nil {
		zap.L().Error("gemini response could not be parsed", zap.Error(err))
		return nil, err
	}

	return drafts, nil
}

type draftJSON struct {
	Title           string      `json:"title"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	Location        string      `json:"location"`
	Description     string      `json:"description"`
	ImageKeyword    string      `json:"imageKeyword"`
	Deadline        string      `json:"deadline"`
	MaxParticipants int         `json:"maxParticipants"`
	CustomFields    []fieldJSON `json:"customFields"`
}

type fieldJSON struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
}

// ParseDrafts decodes the model's JSON array. An empty response is an empty list.
func ParseDrafts(body string) ([]service.EventDraft, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		body = "[]"
	}

	var items []draftJSON
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	drafts := make([]service.EventDraft, 0, len(items))
	for _, it := range items {
		d := service.EventDraft{
			Title:           it.Title,
			Date:            it.Date,
			Time:            it.Time,
			Location:        it.Location,
			Description:     it.Description,
			ImageKeyword:    it.ImageKeyword,
			Deadline:        it.Deadline,
			MaxParticipants: it.MaxParticipants,
		}
		for _, f := range it.CustomFields {
			d.CustomFields = append(d.CustomFields, service.FieldSuggestion{
				Name:    f.Name,
				Label:   f.Label,
				Type:    domain.FieldType(f.Type),
				Options: f.Options,
			})
		}
		drafts = append(drafts, d)
	}

	return drafts, nil
}

func eventListSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	field := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":  str("key for data (english)"),
			"label": str("Label shown to user"),
			"type": {
				Type: genai.TypeString,
				Enum: []string{string(domain.FieldText), string(domain.FieldNumber), string(domain.FieldSelect)},
			},
			"options": {
				Type:        genai.TypeArray,
				Items:       str(""),
				Description: "Options if type is select",
			},
		},
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":           str(""),
				"date":            str("YYYY-MM-DD format"),
				"time":            str("e.g., 14:00-16:00"),
				"location":        str(""),
				"description":     str(""),
				"imageKeyword":    str(""),
				"deadline":        str("YYYY-MM-DD"),
				"maxParticipants": {Type: genai.TypeInteger},
				"customFields":    {Type: genai.TypeArray, Items: field},
			},
			Required: []string{"title", "date", "location", "description"},
		},
	}
}
