package paymentgateway

// CreateOrderRequest параметры нового заказа
type CreateOrderRequest struct {
	AmountMinor int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// Order заказ шлюза, который клиент оплачивает на своей стороне
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`

	// KeyID публичный ключ для checkout-виджета, в ответе шлюза не приходит
	KeyID string `json:"keyId,omitempty"`
	// Bypass true для синтетических заказов режима разработки
	Bypass bool `json:"bypass,omitempty"`
}

// errorResponse модель ошибки от шлюза
type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
