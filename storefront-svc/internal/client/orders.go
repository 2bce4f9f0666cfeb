package client

import (
	"context"
	"strings"

	"overcooked-delivery/storefront-svc/internal/domain"
)

// OrderClient submits drafts to the order API.
type OrderClient struct {
	baseURL string
	client  HTTPClient
}

func NewOrderClient(baseURL string, client HTTPClient) *OrderClient {
	return &OrderClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *OrderClient) CreateOrder(ctx context.Context, accessToken string, draft domain.OrderDraft) (*domain.Order, error) {
	var order domain.Order
	if err := doJSON(ctx, c.client, "POST", c.baseURL+"/api/orders", accessToken, draft, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
