package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrFormulationNotFound = errors.New("formulation not found")
	ErrInvalidFormulation  = errors.New("invalid formulation")
)

const percentTolerance = 0.01

// Ingredient 是基质配方中的一种干料及其占干重的百分比
type Ingredient struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// SubstrateFormulation 是一份基质配方
type SubstrateFormulation struct {
	ID          int64
	Name        string
	Ingredients []Ingredient
	HydrationPc float64 // 加水量，占干重的百分比
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IngredientAmount 是按重量算出的用量
type IngredientAmount struct {
	Name  string `json:"name"`
	Grams int64  `json:"grams"`
}

type FormulationResult struct {
	DryGrams    int64              `json:"dryGrams"`
	WaterGrams  int64              `json:"waterGrams"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

func (f *SubstrateFormulation) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFormulation)
	}
	if len(f.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrInvalidFormulation)
	}
	if f.HydrationPc < 0 || f.HydrationPc > 300 {
		return fmt.Errorf("%w: hydration must be within [0, 300]%%", ErrInvalidFormulation)
	}
	seen := make(map[string]bool, len(f.Ingredients))
	var sum float64
	for _, ing := range f.Ingredients {
		if ing.Name == "" || ing.Percent <= 0 {
			return fmt.Errorf("%w: every ingredient needs a name and a positive percentage", ErrInvalidFormulation)
		}
		if seen[ing.Name] {
			return fmt.Errorf("%w: duplicate ingredient %q", ErrInvalidFormulation, ing.Name)
		}
		seen[ing.Name] = true
		sum += ing.Percent
	}
	if math.Abs(sum-100) > percentTolerance {
		return fmt.Errorf("%w: percentages add up to %.2f, not 100", ErrInvalidFormulation, sum)
	}
	return nil
}

// Calculate 把干重按百分比分配到各原料。
// 每种原料向下取整，余数全部给占比最大的原料，保证总和等于 totalDryGrams。
func (f *SubstrateFormulation) Calculate(totalDryGrams int64) (FormulationResult, error) {
	if totalDryGrams <= 0 {
		return FormulationResult{}, fmt.Errorf("%w: dry weight must be positive", ErrInvalidFormulation)
	}
	if err := f.Validate(); err != nil {
		return FormulationResult{}, err
	}

	amounts := make([]IngredientAmount, len(f.Ingredients))
	var allocated int64
	largest := 0
	for i, ing := range f.Ingredients {
		grams := int64(math.Floor(float64(totalDryGrams) * ing.Percent / 100))
		amounts[i] = IngredientAmount{Name: ing.Name, Grams: grams}
		allocated += grams
		if ing.Percent > f.Ingredients[largest].Percent {
			largest = i
		}
	}
	amounts[largest].Grams += totalDryGrams - allocated

	return FormulationResult{
		DryGrams:    totalDryGrams,
		WaterGrams:  int64(math.Round(float64(totalDryGrams) * f.HydrationPc / 100)),
		Ingredients: amounts,
	}, nil
}
