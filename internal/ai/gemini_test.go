package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

type fakeGenerator struct {
	body  string
	err   error
	model string
	cfg   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.cfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.body}}}},
		},
	}, nil
}

func newTestExtractor(key string, gen *fakeGenerator) *GeminiExtractor {
	e := NewGeminiExtractor(GeminiConfig{APIKey: key})
	e.generator = func(context.Context) (contentGenerator, error) { return gen, nil }
	return e
}

func TestExtractWithoutKey(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := newTestExtractor("  ", gen).Extract(context.Background(), "text")

	assert.ErrorIs(t, err, service.ErrMissingCredential)
	assert.Empty(t, gen.model, "the model is not called")
}

func TestExtract(t *testing.T) {
	gen := &fakeGenerator{body: `[{"title":"社區電影夜","date":"2023-10-20","location":"中庭","description":"露天電影",
		"imageKeyword":"movie","maxParticipants":30,
		"customFields":[{"name":"seats","label":"座位數","type":"number"}]}]`}

	drafts, err := newTestExtractor("key", gen).Extract(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, DefaultGeminiModel, gen.model)
	assert.Equal(t, "application/json", gen.cfg.ResponseMIMEType)
	assert.Equal(t, genai.TypeArray, gen.cfg.ResponseSchema.Type)

	require.Len(t, drafts, 1)
	assert.Equal(t, service.EventDraft{
		Title:           "社區電影夜",
		Date:            "2023-10-20",
		Location:        "中庭",
		Description:     "露天電影",
		ImageKeyword:    "movie",
		MaxParticipants: 30,
		CustomFields:    []service.FieldSuggestion{{Name: "seats", Label: "座位數", Type: domain.FieldNumber}},
	}, drafts[0])
}

func TestExtractModelError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}

	_, err := newTestExtractor("key", gen).Extract(context.Background(), "text")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrMissingCredential)
}

func TestParseDrafts(t *testing.T) {
	drafts, err := ParseDrafts("")
	require.NoError(t, err)
	assert.Empty(t, drafts)

	drafts, err = ParseDrafts(" [] ")
	require.NoError(t, err)
	assert.Empty(t, drafts)

	_, err = ParseDrafts("Sure! Here are your events:")
	assert.Error(t, err)
}
