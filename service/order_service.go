package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"catalogo-millex/models"
	"catalogo-millex/repository"
	"catalogo-millex/utils"
)

// DefaultOrderHeader opens every handoff message unless configured otherwise
const DefaultOrderHeader = "Hola, quiero hacer el siguiente pedido:"

// OrderSink persists submitted orders
type OrderSink interface {
	Save(ctx context.Context, order *models.Order) error
}

// OrderService turns a session cart into a handoff message and link
type OrderService struct {
	phone  string
	header string
	sink   OrderSink
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates a new OrderService. sink may be nil, in which case
// orders are handed off but not recorded.
func NewOrderService(phone, header string, sink OrderSink, logger *zap.Logger) *OrderService {
	if header == "" {
		header = DefaultOrderHeader
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		phone:  phone,
		header: header,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Checkout builds the order for the session's cart. The cart is left untouched.
// The caller must hold the session lock.
func (s *OrderService) Checkout(ctx context.Context, session *repository.Session) (*models.Order, error) {
	summary := session.Cart.Summarize()
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	message := BuildOrderMessage(s.header, summary)
	order := &models.Order{
		ID:         ulid.Make().String(),
		SessionID:  session.ID,
		Summary:    summary,
		Message:    message,
		HandoffURL: utils.WhatsAppLink(s.phone, message),
		CreatedAt:  s.now().UTC(),
	}

	if s.sink != nil {
		if err := s.sink.Save(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to record order: %w", err)
		}
	}

	s.logger.Info("📦 order handed off",
		zap.String("orderId", order.ID),
		zap.Int("lines", len(summary.Lines)),
		zap.Int("items", summary.ItemCount),
		zap.String("total", summary.Total.String()),
	)
	return order, nil
}

// BuildOrderMessage renders the plain-text order sent through the handoff link
func BuildOrderMessage(header string, summary models.OrderSummary) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "- %s (%s) x %d\n", line.Description, line.Code, line.Quantity)
	}
	b.WriteString("Total: ")
	b.WriteString(utils.FormatMoney(summary.Total))
	return b.String()
}
