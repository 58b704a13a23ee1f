package adapter

import (
	"context"
	"net/url"
	"strconv"

	"mycelium/internal/pkg/httpclient"
	shippingdomain "mycelium/internal/service/shipping/domain"
)

// ShippingHTTPAdapter 通过 shipping-service 的 /get_quote 报价，实现了 port.ShippingService
type ShippingHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewShippingHTTPAdapter(client *httpclient.Client, baseURL string) *ShippingHTTPAdapter {
	return &ShippingHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *ShippingHTTPAdapter) Quote(ctx context.Context, region string, weightGrams int64) (shippingdomain.Quote, error) {
	params := url.Values{}
	params.Set("region", region)
	params.Set("weight_grams", strconv.FormatInt(weightGrams, 10))

	var quote shippingdomain.Quote
	if err := a.client.GetJSON(ctx, a.baseURL+"/get_quote", params, &quote); err != nil {
		return shippingdomain.Quote{}, err
	}
	return quote, nil
}
