package domain

type OrderItemInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CreateOrderRequest struct {
	TableID  string           `json:"table_id"`
	Items    []OrderItemInput `json:"items"`
	Location *LatLng          `json:"location"`
	ClientIP string           `json:"client_ip,omitempty"`
}

type CreateOrderResponse struct {
	ID          string      `json:"id"`
	TableID     string      `json:"table_id"`
	Items       []OrderItem `json:"items"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
