// internal/service/shipping/domain/table.go
package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCostTable = errors.New("invalid shipping cost table")

// Locality 区分目的地是否与发货地同一区域
type Locality string

const (
	LocalitySameRegion  Locality = "same"
	LocalityOtherRegion Locality = "other"
)

// Rates 尺寸档位 -> 运费（比索，整数）
type Rates map[SizeClass]int64

// CostTable 发货 Zone -> 目的 Zone -> Locality -> 尺寸 -> 运费。
// 目前只有 Centro 发货，但结构按多仓库设计。
type CostTable map[Zone]map[Zone]map[Locality]Rates

// DefaultCostTable 返回内置运费表
func DefaultCostTable() CostTable {
	return CostTable{
		ZoneCentro: {
			ZoneCentro: {
				LocalitySameRegion:  {SizeXS: 3500, SizeS: 4200, SizeM: 5200, SizeL: 6900},
				LocalityOtherRegion: {SizeXS: 4300, SizeS: 5100, SizeM: 6300, SizeL: 8400},
			},
			ZoneSantiago: {
				LocalityOtherRegion: {SizeXS: 4500, SizeS: 5600, SizeM: 7300, SizeL: 9800},
			},
			ZoneExtremo: {
				LocalityOtherRegion: {SizeXS: 7900, SizeS: 10200, SizeM: 13500, SizeL: 17000},
			},
		},
	}
}

// ParseCostTable 把配置文件中的字符串键转换为强类型运费表，并校验每个键和金额
func ParseCostTable(raw map[string]map[string]map[string]map[string]int64) (CostTable, error) {
	table := make(CostTable, len(raw))
	for origin, byDest := range raw {
		oz := Zone(origin)
		if !isKnownZone(oz) {
			return nil, fmt.Errorf("%w: unknown origin zone %q", ErrInvalidCostTable, origin)
		}
		table[oz] = make(map[Zone]map[Locality]Rates, len(byDest))
		for dest, byLocality := range byDest {
			dz := Zone(dest)
			if !isKnownZone(dz) {
				return nil, fmt.Errorf("%w: unknown destination zone %q", ErrInvalidCostTable, dest)
			}
			table[oz][dz] = make(map[Locality]Rates, len(byLocality))
			for loc, bySize := range byLocality {
				l := Locality(loc)
				if l != LocalitySameRegion && l != LocalityOtherRegion {
					return nil, fmt.Errorf("%w: unknown locality %q", ErrInvalidCostTable, loc)
				}
				rates := make(Rates, len(bySize))
				for size, cost := range bySize {
					sc := SizeClass(size)
					if !isKnownSize(sc) {
						return nil, fmt.Errorf("%w: unknown size class %q", ErrInvalidCostTable, size)
					}
					if cost < 0 {
						return nil, fmt.Errorf("%w: negative cost for %s/%s/%s/%s", ErrInvalidCostTable, origin, dest, loc, size)
					}
					rates[sc] = cost
				}
				table[oz][dz][l] = rates
			}
		}
	}
	return table, nil
}

func (t CostTable) clone() CostTable {
	out := make(CostTable, len(t))
	for oz, byDest := range t {
		out[oz] = make(map[Zone]map[Locality]Rates, len(byDest))
		for dz, byLocality := range byDest {
			out[oz][dz] = make(map[Locality]Rates, len(byLocality))
			for l, rates := range byLocality {
				r := make(Rates, len(rates))
				for sc, cost := range rates {
					r[sc] = cost
				}
				out[oz][dz][l] = r
			}
		}
	}
	return out
}

// lookup 在任一层缺失时返回 false，读取 nil map 是安全的
func (t CostTable) lookup(origin, dest Zone, locality Locality, size SizeClass) (int64, bool) {
	cost, ok := t[origin][dest][locality][size]
	return cost, ok
}
