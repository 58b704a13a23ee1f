// internal/pkg/httpclient/client.go

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StatusError 表示下游返回了非 2xx 状态码
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client 是一个可追踪的、可注入的HTTP客户端
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
}

// NewClient 创建一个新的客户端实例。
// 不设置 http.Client.Timeout，超时完全由每次请求传入的 context 控制。
func NewClient(tracer trace.Tracer) *Client {
	return &Client{
		Tracer: tracer,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
}

// GetJSON 发送 GET 请求并把响应体解码到 out
func (c *Client) GetJSON(ctx context.Context, serviceURL string, params url.Values, out interface{}) error {
	target, err := url.Parse(serviceURL)
	if err != nil {
		return err
	}
	q := target.Query()
	for key, values := range params {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	target.RawQuery = q.Encode()
	return c.do(ctx, http.MethodGet, target, nil, out)
}

// PostJSON 以 JSON 发送 body，并把响应体解码到 out（out 可以为 nil）
func (c *Client) PostJSON(ctx context.Context, serviceURL string, body, out interface{}) error {
	target, err := url.Parse(serviceURL)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, target, payload, out)
}

func (c *Client) do(ctx context.Context, method string, target *url.URL, payload []byte, out interface{}) error {
	spanName := fmt.Sprintf("call-%s", target.Hostname())
	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.url", target.String()),
		attribute.String("http.method", method),
	)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := &StatusError{URL: target.String(), StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("decode response from %s: %w", target.String(), err)
	}
	return nil
}
