package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/ordering"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// RegistrationHandler emails the confirmation token to newly
// registered users
type RegistrationHandler struct {
	mailer Mailer
	tokens identity.VerificationTokenRepository
	logger *zap.Logger
}

// NewRegistrationHandler creates the registration notification handler
func NewRegistrationHandler(mailer Mailer, tokens identity.VerificationTokenRepository, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{mailer: mailer, tokens: tokens, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *RegistrationHandler) EventTypes() []string {
	return []string{identity.EventTypeUserRegistered}
}

// Handle sends the email confirmation token for the registered user
func (h *RegistrationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	registered, ok := event.(*identity.UserRegisteredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	token, err := h.tokens.FindByUser(ctx, registered.UserID)
	if err != nil {
		h.logger.Error("confirmation token not found for registered user",
			zap.String("user_id", registered.UserID.String()),
			zap.Error(err))
		return err
	}

	msg := Message{
		To:      registered.Email,
		Subject: fmt.Sprintf("Email confirmation for %s", registered.Email),
		Body:    token.Token.String(),
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	h.logger.Info("confirmation email sent",
		zap.String("user_id", registered.UserID.String()))
	return nil
}

// OrderPlacedHandler emails the buyer when their basket becomes an order
type OrderPlacedHandler struct {
	mailer Mailer
	users  identity.UserRepository
	logger *zap.Logger
}

// NewOrderPlacedHandler creates the order notification handler
func NewOrderPlacedHandler(mailer Mailer, users identity.UserRepository, logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{mailer: mailer, users: users, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderPlaced}
}

// Handle sends the order status email to the buyer
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*ordering.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	user, err := h.users.FindByID(ctx, placed.UserID)
	if err != nil {
		h.logger.Error("buyer not found for placed order",
			zap.String("order_id", placed.OrderID.String()),
			zap.String("user_id", placed.UserID.String()),
			zap.Error(err))
		return err
	}

	msg := Message{
		To:      user.Email,
		Subject: "Обновление статуса заказа",
		Body:    "Заказ сформирован",
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send order email: %w", err)
	}

	h.logger.Info("order placed email sent",
		zap.String("order_id", placed.OrderID.String()),
		zap.String("user_id", placed.UserID.String()))
	return nil
}

var (
	_ shared.EventHandler = (*RegistrationHandler)(nil)
	_ shared.EventHandler = (*OrderPlacedHandler)(nil)
)
