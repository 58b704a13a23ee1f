// internal/service/assistant/application/service.go
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/metrics"
	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/assistant/domain"
	catalogapp "mycelium/internal/service/catalog/application"
	productionapp "mycelium/internal/service/production/application"
)

const defaultSummaryBatches = 30

// AssistantService 编排所有 AI 流程
type AssistantService struct {
	llm      LLM
	batches  BatchSource
	products ProductSource
	tracer   trace.Tracer
}

func NewAssistantService(llm LLM, batches BatchSource, products ProductSource, tracer trace.Tracer) *AssistantService {
	return &AssistantService{llm: llm, batches: batches, products: products, tracer: tracer}
}

// SummarizeBatches 让模型总结当前的生产批次
func (s *AssistantService) SummarizeBatches(ctx context.Context, req *SummarizeBatchesRequest) (result *domain.BatchSummary, err error) {
	ctx, done := s.startFlow(ctx, "summarize_batches")
	defer func() { done(err) }()

	if err = validation.Struct(req); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultSummaryBatches
	}
	var (
		batches  []productionapp.BatchView
		products []catalogapp.ProductView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		batches, err = s.batches.ListBatches(gctx, req.Status, limit)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.ListProducts(gctx, true)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("%w: no batches to summarize", validation.ErrInvalidRequest)
	}

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	var b strings.Builder
	b.WriteString("Lotes actuales:\n")
	for _, batch := range batches {
		fmt.Fprintf(&b, "- %s: %s, %d unidades, estado %s, %d días, ánimo %s",
			batch.Code, batch.Strain, batch.Units, batch.Status, batch.AgeDays, batch.Mood)
		if name := names[batch.ProductID]; name != "" {
			fmt.Fprintf(&b, ", kit %s", name)
		}
		b.WriteString("\n")
	}

	result = &domain.BatchSummary{}
	err = s.generateJSON(ctx, domain.Prompt{
		System: "Eres el jefe de cultivo de una granja de hongos gourmet en Chile. Responde en español.",
		Turns:  []domain.Turn{domain.TextTurn(domain.RoleUser, b.String())},
		Schema: summarySchema,
	}, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SuggestFormulation 请模型给出一份培养基配方
func (s *AssistantService) SuggestFormulation(ctx context.Context, req *SuggestFormulationRequest) (result *domain.FormulationSuggestion, err error) {
	ctx, done := s.startFlow(ctx, "suggest_formulation")
	defer func() { done(err) }()

	if err = validation.Struct(req); err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Especie: %s\nObjetivo: %s\nPeso seco total: %d g\n"+
		"Propón una formulación de sustrato cuyos ingredientes sumen el peso seco total.",
		req.Species, req.Goal, req.TotalDryGrams)

	result = &domain.FormulationSuggestion{}
	err = s.generateJSON(ctx, domain.Prompt{
		System: "Eres un micólogo que diseña sustratos para cultivo comercial.",
		Turns:  []domain.Turn{domain.TextTurn(domain.RoleUser, msg)},
		Schema: formulationSchema,
	}, result)
	if err != nil {
		return nil, err
	}
	if got := result.DryGrams(); got != req.TotalDryGrams {
		logger.Ctx(ctx).Warn().Int64("requested", req.TotalDryGrams).Int64("suggested", got).Msg("suggested formulation does not match requested dry weight")
	}
	return result, nil
}

// DiagnoseContamination 根据照片判断菌包是否被污染
func (s *AssistantService) DiagnoseContamination(ctx context.Context, req *DiagnoseRequest) (result *domain.Diagnosis, err error) {
	ctx, done := s.startFlow(ctx, "diagnose_contamination")
	defer func() { done(err) }()

	if err = validation.Struct(req); err != nil {
		return nil, err
	}
	text := "¿Este bloque de cultivo está contaminado?"
	if req.Notes != "" {
		text += "\nNotas del productor: " + req.Notes
	}

	result = &domain.Diagnosis{}
	err = s.generateJSON(ctx, domain.Prompt{
		System: "Eres un experto en contaminación de cultivos de hongos. Responde en español.",
		Turns: []domain.Turn{{
			Role: domain.RoleUser,
			Parts: []domain.Part{
				{Data: req.Image, MIMEType: req.MIMEType},
				{Text: text},
			},
		}},
		Schema: diagnosisSchema,
	}, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Chat 是面向顾客的对话，系统提示里带上当前在售商品
func (s *AssistantService) Chat(ctx context.Context, req *ChatRequest) (resp *ChatResponse, err error) {
	ctx, done := s.startFlow(ctx, "chat")
	defer func() { done(err) }()

	if err = validation.Struct(req); err != nil {
		return nil, err
	}
	system, err := s.chatSystemInstruction(ctx)
	if err != nil {
		return nil, err
	}

	turns := make([]domain.Turn, 0, len(req.History)+1)
	for _, h := range req.History {
		turns = append(turns, domain.TextTurn(domain.Role(h.Role), h.Text))
	}
	turns = append(turns, domain.TextTurn(domain.RoleUser, req.Message))

	reply, err := s.llm.Generate(ctx, domain.Prompt{System: system, Turns: turns})
	if err != nil {
		return nil, err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, domain.ErrEmptyResponse
	}
	return &ChatResponse{Reply: reply}, nil
}

// TextToSpeech 合成语音并封装为 WAV
func (s *AssistantService) TextToSpeech(ctx context.Context, req *SpeechRequest) (wav []byte, err error) {
	ctx, done := s.startFlow(ctx, "text_to_speech")
	defer func() { done(err) }()

	if err = validation.Struct(req); err != nil {
		return nil, err
	}
	pcm, format, err := s.llm.Speak(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, domain.ErrEmptyResponse
	}
	return domain.EncodeWAV(pcm, format), nil
}

func (s *AssistantService) GenerateImage(ctx context.Context, req *ImageRequest) (png []byte, err error) {
	ctx, done := s.startFlow(ctx, "generate_image")
	defer func() { done(err) }()

	if err = validation.Struct(req); err != nil {
		return nil, err
	}
	png, err = s.llm.Image(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}
	if len(png) == 0 {
		return nil, domain.ErrEmptyResponse
	}
	return png, nil
}

func (s *AssistantService) chatSystemInstruction(ctx context.Context) (string, error) {
	products, err := s.products.ListProducts(ctx, false)
	if err != nil {
		return "", fmt.Errorf("load products for chat: %w", err)
	}
	var b strings.Builder
	b.WriteString("Eres el asistente de Mycelium, una tienda chilena de kits de cultivo de hongos. ")
	b.WriteString("Responde en español, de forma breve y amable. Solo recomienda productos de esta lista:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s ($%d CLP): %s\n", p.Name, p.PriceCLP, p.Description)
	}
	return b.String(), nil
}

// generateJSON 调用模型并把输出解码到 out，随后执行 out 的 Validate
func (s *AssistantService) generateJSON(ctx context.Context, prompt domain.Prompt, out interface{ Validate() error }) error {
	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	raw = stripCodeFence(raw)
	if raw == "" {
		return domain.ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return out.Validate()
}

// startFlow 开启 span 并返回结束回调，回调负责记录指标
func (s *AssistantService) startFlow(ctx context.Context, flow string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "assistant."+flow)
	span.SetAttributes(attribute.String("ai.flow", flow))
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()
		outcome := flowOutcome(err)
		metrics.AIFlowDuration.WithLabelValues(flow, outcome).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			logger.Ctx(ctx).Warn().Err(err).Str("flow", flow).Msg("ai flow failed")
		}
	}
}

func flowOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, validation.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, domain.ErrInvalidResponse):
		return "invalid_response"
	default:
		return "error"
	}
}

// stripCodeFence 去掉模型偶尔包在 JSON 外面的 ``` 围栏
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
