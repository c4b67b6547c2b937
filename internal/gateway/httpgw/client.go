package httpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"table-orders/internal/domain"
	"table-orders/internal/gateway"
)

// Client implements gateway.OrderGateway over the order-service HTTP API.
type Client struct {
	base string
	hc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Create(ctx context.Context, order domain.PendingOrder) (domain.CommitResult, error) {
	req := domain.CreateOrderRequest{
		TableID:  order.TableID,
		Location: order.Location,
		ClientIP: order.ClientIP,
	}
	for _, it := range order.Items {
		req.Items = append(req.Items, domain.OrderItemInput{
			Name: it.Name, Price: it.Price, Quantity: it.Quantity,
		})
	}

	var resp domain.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", req, &resp); err != nil {
		return domain.CommitResult{}, err
	}
	return domain.CommitResult{
		ID:      resp.ID,
		TableID: resp.TableID,
		Items:   resp.Items,
		Total:   resp.TotalAmount,
		Status:  resp.Status,
	}, nil
}

func (c *Client) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.StaffOrder, error) {
	var out []domain.StaffOrder
	path := "/api/v1/orders?status=" + url.QueryEscape(string(status))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	path := "/api/v1/orders/" + url.PathEscape(orderID) + "/status"
	return c.do(ctx, http.MethodPatch, path, domain.UpdateStatusRequest{Status: string(status)}, nil)
}

func (c *Client) Delete(ctx context.Context, orderID string) error {
	path := "/api/v1/orders/" + url.PathEscape(orderID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// problem mirrors the error body order-service produces.
type problem struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case res.StatusCode == http.StatusNotFound:
		return gateway.ErrNotFound
	case res.StatusCode == http.StatusBadRequest || res.StatusCode == http.StatusUnprocessableEntity:
		var p problem
		_ = json.NewDecoder(res.Body).Decode(&p)
		return &gateway.ValidationError{Field: p.Type, Reason: p.Detail}
	case res.StatusCode == http.StatusConflict:
		var p problem
		_ = json.NewDecoder(res.Body).Decode(&p)
		return fmt.Errorf("status conflict: %s", p.Detail)
	default:
		return fmt.Errorf("%w: unexpected status %d", gateway.ErrUnavailable, res.StatusCode)
	}
}
