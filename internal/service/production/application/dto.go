package application

import (
	"time"

	orderapp "mycelium/internal/service/order/application"
	"mycelium/internal/service/production/domain"
)

type CreateBatchRequest struct {
	ProductID     int64      `json:"productId" validate:"gte=0"`
	Strain        string     `json:"strain" validate:"required,max=120"`
	FormulationID int64      `json:"formulationId" validate:"gte=0"`
	Units         int        `json:"units" validate:"gte=1,lte=10000"`
	InoculatedAt  *time.Time `json:"inoculatedAt"`
	Notes         string     `json:"notes" validate:"max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=INOCULATED INCUBATING FRUITING HARVESTED CONTAMINATED DISCARDED"`
	Note   string `json:"note" validate:"max=500"`
}

type IngredientInput struct {
	Name    string  `json:"name" validate:"required,max=80"`
	Percent float64 `json:"percent" validate:"gt=0,lte=100"`
}

type FormulationRequest struct {
	Name        string            `json:"name" validate:"required,max=120"`
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,max=20,dive"`
	HydrationPc float64           `json:"hydrationPc" validate:"gte=0,lte=300"`
	Notes       string            `json:"notes" validate:"max=2000"`
}

type LabelsRequest struct {
	BatchIDs []int64 `json:"batchIds" validate:"required,min=1,max=100,dive,gt=0"`
}

type BatchView struct {
	ID            int64              `json:"id"`
	Code          string             `json:"code"`
	ProductID     int64              `json:"productId"`
	Strain        string             `json:"strain"`
	FormulationID int64              `json:"formulationId"`
	Status        domain.BatchStatus `json:"status"`
	Units         int                `json:"units"`
	InoculatedAt  time.Time          `json:"inoculatedAt"`
	AgeDays       int                `json:"ageDays"`
	Mood          domain.Mood        `json:"mood"`
	Notes         string             `json:"notes"`
}

type FormulationView struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Ingredients []domain.Ingredient `json:"ingredients"`
	HydrationPc float64             `json:"hydrationPc"`
	Notes       string              `json:"notes"`
}

// LabelView 是一张可打印标签的数据
type LabelView struct {
	Code         string `json:"code"`
	ProductName  string `json:"productName"`
	Strain       string `json:"strain"`
	InoculatedOn string `json:"inoculatedOn"`
	ScanURL      string `json:"scanUrl"`
}

type DashboardView struct {
	StatusCounts  map[domain.BatchStatus]int `json:"statusCounts"`
	TotalBatches  int                        `json:"totalBatches"`
	RecentBatches []BatchView                `json:"recentBatches"`
	RecentOrders  []orderapp.OrderView       `json:"recentOrders"`
}

func toFormulationView(f *domain.SubstrateFormulation) FormulationView {
	return FormulationView{
		ID:          f.ID,
		Name:        f.Name,
		Ingredients: f.Ingredients,
		HydrationPc: f.HydrationPc,
		Notes:       f.Notes,
	}
}
