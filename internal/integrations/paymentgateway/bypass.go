package paymentgateway

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// BypassOrderPrefix префикс синтетических заказов режима разработки
const BypassOrderPrefix = "order_bypass_"

// BypassGateway заменяет реальный шлюз в режиме разработки
// Включается только явно (payment.mode = "bypass")
type BypassGateway struct {
	log Logger
}

// NewBypassGateway создает шлюз режима разработки
func NewBypassGateway(log Logger) *BypassGateway {
	log.Warn("Payment gateway BYPASS mode is enabled: orders are synthetic and no money is charged")
	return &BypassGateway{log: log}
}

// CreateOrder возвращает синтетический заказ без обращения к сети
func (g *BypassGateway) CreateOrder(_ context.Context, in CreateOrderRequest) (*Order, error) {
	order := &Order{
		ID:       BypassOrderPrefix + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:   in.AmountMinor,
		Currency: in.Currency,
		Receipt:  in.Receipt,
		Status:   "created",
		Bypass:   true,
	}

	g.log.Info("Bypass payment order %s created for receipt=%s", order.ID, in.Receipt)
	return order, nil
}
