package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"mycelium/internal/pkg/httpclient"
	"mycelium/internal/service/order/port"
)

// PaymentHTTPAdapter 实现了 port.PaymentGateway，网关是一个接受 JSON 并返回跳转地址的 HTTP 端点
type PaymentHTTPAdapter struct {
	client     *httpclient.Client
	gatewayURL string
	timeout    time.Duration
}

func NewPaymentHTTPAdapter(client *httpclient.Client, gatewayURL string, timeout time.Duration) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, gatewayURL: gatewayURL, timeout: timeout}
}

func (a *PaymentHTTPAdapter) CreatePayment(ctx context.Context, req port.PaymentRequest) (*port.PaymentSession, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var session port.PaymentSession
	if err := a.client.PostJSON(ctx, a.gatewayURL, req, &session); err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	return &session, nil
}

// TransferPaymentGateway 用于没有配置支付网关的环境：顾客通过银行转账付款，
// 订单停留在 PENDING_PAYMENT，直到面板手动确认。
// 没有配置 returnUrl 时跳转到店铺的订单页 <OrderPageBase>/orders/<id>
type TransferPaymentGateway struct {
	OrderPageBase string
}

func (g TransferPaymentGateway) CreatePayment(ctx context.Context, req port.PaymentRequest) (*port.PaymentSession, error) {
	redirect := req.ReturnURL
	if redirect == "" {
		if g.OrderPageBase == "" {
			return nil, fmt.Errorf("transfer payment: neither return url nor order page base configured")
		}
		redirect = strings.TrimRight(g.OrderPageBase, "/") + "/orders/" + url.PathEscape(req.OrderID)
	}
	return &port.PaymentSession{RedirectURL: redirect, Reference: "transfer-" + req.OrderID}, nil
}
