// internal/service/assistant/infrastructure/genai_client.go
package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/service/assistant/domain"
)

// GenAIClient 使用 Gemini API 实现 application.LLM
type GenAIClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
	ttsModel   string
	voice      string
}

func NewGenAIClient(ctx context.Context, cfg bootstrap.AIConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIClient{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		ttsModel:   cfg.TTSModel,
		voice:      cfg.Voice,
	}, nil
}

func (c *GenAIClient) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	config := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toGenAISchema(prompt.Schema)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, toContents(prompt.Turns), config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

func (c *GenAIClient) Speak(ctx context.Context, text string) ([]byte, domain.PCMFormat, error) {
	config := &genai.GenerateContentConfig{
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}
	config.ResponseModalities = append(config.ResponseModalities, "AUDIO")

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.ttsModel, contents, config)
	if err != nil {
		return nil, domain.PCMFormat{}, fmt.Errorf("GenAI speech failed: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, pcmFormatFromMIME(part.InlineData.MIMEType), nil
			}
		}
	}
	return nil, domain.PCMFormat{}, domain.ErrEmptyResponse
}

func (c *GenAIClient) Image(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI image failed: %w", err)
	}
	for _, img := range resp.GeneratedImages {
		if img.Image != nil && len(img.Image.ImageBytes) > 0 {
			return img.Image.ImageBytes, nil
		}
	}
	return nil, domain.ErrEmptyResponse
}

func toContents(turns []domain.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		parts := make([]*genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			if len(p.Data) > 0 {
				parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
				continue
			}
			parts = append(parts, genai.NewPartFromText(p.Text))
		}
		var role genai.Role = genai.RoleUser
		if t.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents
}

func toGenAISchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       toGenAISchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenAISchema(prop)
		}
	}
	return out
}

func schemaType(t domain.SchemaType) genai.Type {
	switch t {
	case domain.TypeObject:
		return genai.TypeObject
	case domain.TypeArray:
		return genai.TypeArray
	case domain.TypeInteger:
		return genai.TypeInteger
	case domain.TypeNumber:
		return genai.TypeNumber
	case domain.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// pcmFormatFromMIME 解析 "audio/L16;codec=pcm;rate=24000" 形式的 MIME
func pcmFormatFromMIME(mime string) domain.PCMFormat {
	format := domain.DefaultPCMFormat
	for _, param := range strings.Split(mime, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || key != "rate" {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			format.SampleRate = rate
		}
	}
	return format
}
