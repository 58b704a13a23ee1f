// internal/service/order/domain/state.go
package domain

// State 定义了订单的生命周期状态
type State string

const (
	StateCreated        State = "CREATED"         // 只存在于结账流程内存中
	StatePendingPayment State = "PENDING_PAYMENT" // 库存已预占，等待用户在支付网关完成付款
	StatePaid           State = "PAID"
	StateCancelled      State = "CANCELLED" // 用户或面板取消，库存已释放
	StateFailed         State = "FAILED"    // 结账过程中失败，补偿已执行
)

// Terminal 表示订单不会再发生状态变化
func (s State) Terminal() bool {
	return s == StatePaid || s == StateCancelled || s == StateFailed
}
