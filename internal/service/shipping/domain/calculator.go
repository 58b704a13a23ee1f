// internal/service/shipping/domain/calculator.go
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOrigin   = errors.New("origin region is not a known region")
	ErrOriginNotServed = errors.New("cost table has no rates for origin zone")
)

// Quote 是一次运费计算的完整结果。
// Determined=false 表示目的地未知或运费表缺项，此时 Cost 为 0，不代表包邮。
type Quote struct {
	Region      string    `json:"region"`
	Zone        Zone      `json:"zone,omitempty"`
	SizeClass   SizeClass `json:"sizeClass"`
	WeightGrams int64     `json:"weightGrams"`
	Cost        int64     `json:"cost"`
	Determined  bool      `json:"determined"`
}

// Calculator 是纯函数式的运费计算器，构造后不可变，可并发使用
type Calculator struct {
	origin Region
	table  CostTable
}

// NewCalculator 校验发货地并复制一份运费表
func NewCalculator(originRegion string, table CostTable) (*Calculator, error) {
	zone, ok := LookupZone(originRegion)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrigin, originRegion)
	}
	if len(table[zone]) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOriginNotServed, zone)
	}
	return &Calculator{
		origin: Region{Name: originRegion, Zone: zone},
		table:  table.clone(),
	}, nil
}

func (c *Calculator) Origin() Region {
	return c.origin
}

// Quote 计算目的地和总重对应的运费
func (c *Calculator) Quote(destinationRegion string, totalWeightGrams int64) Quote {
	size := ClassifyWeight(totalWeightGrams)
	q := Quote{
		Region:      destinationRegion,
		SizeClass:   size,
		WeightGrams: totalWeightGrams,
	}

	destZone, ok := LookupZone(destinationRegion)
	if !ok {
		return q
	}
	q.Zone = destZone

	locality := LocalityOtherRegion
	if destinationRegion == c.origin.Name {
		locality = LocalitySameRegion
	}

	cost, ok := c.table.lookup(c.origin.Zone, destZone, locality, size)
	if !ok {
		return q
	}
	q.Cost = cost
	q.Determined = true
	return q
}

// Cost 只返回金额；无法计算时返回 0
func (c *Calculator) Cost(destinationRegion string, totalWeightGrams int64) int64 {
	return c.Quote(destinationRegion, totalWeightGrams).Cost
}
