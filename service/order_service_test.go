package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogo-millex/models"
	"catalogo-millex/repository"
)

type recordingSink struct {
	orders []*models.Order
	err    error
}

func (s *recordingSink) Save(_ context.Context, order *models.Order) error {
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, order)
	return nil
}

func sessionWithCart(t *testing.T) *repository.Session {
	t.Helper()
	session := repository.NewMemorySessionStore(45).Create()
	session.Cart.SetQuantity("X", models.LineSnapshot{Description: "Comida para Gatos", UnitPrice: decimal.NewFromInt(10), SourceLine: "linea-gatos"}, 2)
	session.Cart.SetQuantity("Y", models.LineSnapshot{Description: "Arena", UnitPrice: decimal.NewFromInt(5), SourceLine: "linea-gatos"}, 1)
	return session
}

func TestBuildOrderMessage(t *testing.T) {
	session := sessionWithCart(t)
	msg := BuildOrderMessage("Pedido", session.Cart.Summarize())

	assert.Equal(t, "Pedido\n- Comida para Gatos (X) x 2\n- Arena (Y) x 1\nTotal: $25.00", msg)
}

func TestCheckoutBuildsHandoff(t *testing.T) {
	sink := &recordingSink{}
	svc := NewOrderService("+52 1 555 555 5555", "", sink, nil)
	session := sessionWithCart(t)

	order, err := svc.Checkout(context.Background(), session)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, session.ID, order.SessionID)
	assert.True(t, order.Summary.Total.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 3, order.Summary.ItemCount)
	assert.True(t, strings.HasPrefix(order.Message, DefaultOrderHeader))
	assert.True(t, strings.HasPrefix(order.HandoffURL, "https://wa.me/5215555555555?text="))
	require.Len(t, sink.orders, 1)
	assert.Same(t, order, sink.orders[0])

	assert.Equal(t, 2, session.Cart.Len(), "checkout does not clear the cart")
}

func TestCheckoutEmptyCart(t *testing.T) {
	sink := &recordingSink{}
	svc := NewOrderService("5555", "", sink, nil)
	session := repository.NewMemorySessionStore(45).Create()

	_, err := svc.Checkout(context.Background(), session)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, sink.orders)
}

func TestCheckoutWithoutPhoneOrSink(t *testing.T) {
	svc := NewOrderService("", "Pedido", nil, nil)
	order, err := svc.Checkout(context.Background(), sessionWithCart(t))
	require.NoError(t, err)
	assert.Empty(t, order.HandoffURL)
	assert.True(t, strings.HasPrefix(order.Message, "Pedido\n"))
}

func TestCheckoutSinkFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := NewOrderService("5555", "", &recordingSink{err: boom}, nil)
	_, err := svc.Checkout(context.Background(), sessionWithCart(t))
	assert.ErrorIs(t, err, boom)
}
