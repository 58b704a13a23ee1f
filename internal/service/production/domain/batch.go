// internal/service/production/domain/batch.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBatchNotFound     = errors.New("batch not found")
	ErrInvalidBatch      = errors.New("invalid batch")
	ErrInvalidTransition = errors.New("invalid batch status transition")
)

// BatchStatus 是一批菌包的生长阶段
type BatchStatus string

const (
	StatusInoculated   BatchStatus = "INOCULATED"
	StatusIncubating   BatchStatus = "INCUBATING"
	StatusFruiting     BatchStatus = "FRUITING"
	StatusHarvested    BatchStatus = "HARVESTED"
	StatusContaminated BatchStatus = "CONTAMINATED"
	StatusDiscarded    BatchStatus = "DISCARDED"
)

// AllStatuses 按生命周期顺序排列，面板统计使用
var AllStatuses = []BatchStatus{
	StatusInoculated, StatusIncubating, StatusFruiting,
	StatusHarvested, StatusContaminated, StatusDiscarded,
}

// 采收之后可以再出一潮菇，所以 HARVESTED 可以回到 FRUITING
var transitions = map[BatchStatus][]BatchStatus{
	StatusInoculated:   {StatusIncubating, StatusContaminated, StatusDiscarded},
	StatusIncubating:   {StatusFruiting, StatusContaminated, StatusDiscarded},
	StatusFruiting:     {StatusHarvested, StatusContaminated, StatusDiscarded},
	StatusHarvested:    {StatusFruiting, StatusDiscarded},
	StatusContaminated: {StatusDiscarded},
}

func (s BatchStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo 判断状态流转是否合法
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Batch 是一批同时接种的菌包
type Batch struct {
	ID            int64
	Code          string // 印在标签二维码里
	ProductID     int64
	Strain        string
	FormulationID int64
	Status        BatchStatus
	Units         int
	InoculatedAt  time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *Batch) Validate() error {
	switch {
	case b.Code == "":
		return fmt.Errorf("%w: code is required", ErrInvalidBatch)
	case b.Strain == "":
		return fmt.Errorf("%w: strain is required", ErrInvalidBatch)
	case b.Units <= 0:
		return fmt.Errorf("%w: units must be positive", ErrInvalidBatch)
	case !b.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBatch, b.Status)
	case b.InoculatedAt.IsZero():
		return fmt.Errorf("%w: inoculation date is required", ErrInvalidBatch)
	}
	return nil
}

// TransitionTo 推进状态，note 非空时追加到备注
func (b *Batch) TransitionTo(next BatchStatus, note string, now time.Time) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	b.Status = next
	if note != "" {
		stamp := now.Format("2006-01-02")
		if b.Notes != "" {
			b.Notes += "\n"
		}
		b.Notes += fmt.Sprintf("[%s %s] %s", stamp, next, note)
	}
	b.UpdatedAt = now
	return nil
}

// AgeDays 是接种以来经过的整天数，不会为负
func (b *Batch) AgeDays(now time.Time) int {
	if now.Before(b.InoculatedAt) {
		return 0
	}
	return int(now.Sub(b.InoculatedAt).Hours() / 24)
}
