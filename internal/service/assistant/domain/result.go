// internal/service/assistant/domain/result.go
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse 模型没有返回任何内容
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrInvalidResponse 模型返回的内容不符合约定的结构
	ErrInvalidResponse = errors.New("model returned an invalid response")
)

type BatchSummary struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Risks      []string `json:"risks"`
}

func (s *BatchSummary) Validate() error {
	if strings.TrimSpace(s.Summary) == "" {
		return fmt.Errorf("%w: summary is empty", ErrInvalidResponse)
	}
	return nil
}

type SuggestedIngredient struct {
	Name  string `json:"name"`
	Grams int64  `json:"grams"`
}

type FormulationSuggestion struct {
	Ingredients []SuggestedIngredient `json:"ingredients"`
	WaterGrams  int64                 `json:"waterGrams"`
	Notes       string                `json:"notes"`
}

// DryGrams 是所有原料的干重合计
func (s *FormulationSuggestion) DryGrams() int64 {
	var total int64
	for _, ing := range s.Ingredients {
		total += ing.Grams
	}
	return total
}

func (s *FormulationSuggestion) Validate() error {
	if len(s.Ingredients) == 0 {
		return fmt.Errorf("%w: no ingredients", ErrInvalidResponse)
	}
	for _, ing := range s.Ingredients {
		if strings.TrimSpace(ing.Name) == "" || ing.Grams <= 0 {
			return fmt.Errorf("%w: ingredient %q has %d g", ErrInvalidResponse, ing.Name, ing.Grams)
		}
	}
	if s.WaterGrams < 0 {
		return fmt.Errorf("%w: negative water", ErrInvalidResponse)
	}
	return nil
}

type Diagnosis struct {
	Contaminated bool    `json:"contaminated"`
	Contaminant  string  `json:"contaminant"`
	Confidence   float64 `json:"confidence"`
	Advice       string  `json:"advice"`
}

func (d *Diagnosis) Validate() error {
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("%w: confidence %.2f outside [0, 1]", ErrInvalidResponse, d.Confidence)
	}
	if d.Contaminated && strings.TrimSpace(d.Contaminant) == "" {
		d.Contaminant = "desconocido"
	}
	if !d.Contaminated {
		d.Contaminant = ""
	}
	return nil
}
