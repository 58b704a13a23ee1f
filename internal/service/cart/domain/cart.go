// internal/service/cart/domain/cart.go
package domain

import (
	"errors"
	"sort"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("product is not in the cart")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Line 是购物车中的一行，价格和重量是加入时的商品快照
type Line struct {
	ProductID       int64  `json:"productId"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	UnitPriceCLP    int64  `json:"unitPriceClp"`
	UnitWeightGrams int64  `json:"unitWeightGrams"`
}

func (l Line) LineTotal() int64 {
	return l.UnitPriceCLP * int64(l.Quantity)
}

func (l Line) LineWeight() int64 {
	return l.UnitWeightGrams * int64(l.Quantity)
}

// Cart 以客户端持有的 token 作为 ID
type Cart struct {
	ID    string
	Lines []Line
}

func NewCart(id string, lines ...Line) *Cart {
	c := &Cart{ID: id, Lines: append([]Line(nil), lines...)}
	c.normalize()
	return c
}

// Add 加入商品；同一商品合并数量，快照刷新为最新值
func (c *Cart) Add(line Line) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(line.ProductID); i >= 0 {
		line.Quantity += c.Lines[i].Quantity
		c.Lines[i] = line
		return nil
	}
	c.Lines = append(c.Lines, line)
	c.normalize()
	return nil
}

// SetQuantity 覆盖数量，qty <= 0 等同于移除
func (c *Cart) SetQuantity(productID int64, qty int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
	c.Lines[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(productID int64) {
	if i := c.indexOf(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Quantity(productID int64) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

// Subtotal 是 Σ 单价 × 数量
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.LineTotal()
	}
	return sum
}

// TotalWeight 是运费计算使用的总克数
func (c *Cart) TotalWeight() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.LineWeight()
	}
	return sum
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Total 订单总额 = 小计 + 运费
func Total(subtotal, shipping int64) int64 {
	return subtotal + shipping
}

func (c *Cart) indexOf(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// 行按商品 ID 排序，从 Redis 读回时顺序才稳定
func (c *Cart) normalize() {
	sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].ProductID < c.Lines[j].ProductID })
}
