package application

import (
	"context"

	"mycelium/internal/service/assistant/domain"
	catalogapp "mycelium/internal/service/catalog/application"
	productionapp "mycelium/internal/service/production/application"
)

// LLM 是生成式模型的出站端口
type LLM interface {
	// Generate 返回模型输出的文本；Prompt.Schema 非空时输出为 JSON
	Generate(ctx context.Context, prompt domain.Prompt) (string, error)
	// Speak 返回原始 PCM 数据及其格式
	Speak(ctx context.Context, text string) ([]byte, domain.PCMFormat, error)
	// Image 返回 PNG 图片
	Image(ctx context.Context, prompt string) ([]byte, error)
}

type BatchSource interface {
	ListBatches(ctx context.Context, status string, limit int) ([]productionapp.BatchView, error)
}

type ProductSource interface {
	ListProducts(ctx context.Context, includeInactive bool) ([]catalogapp.ProductView, error)
}
