package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gamecentre/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// ErrDeclined is returned when the external charge did not reach a confirmed
// paid state.
var ErrDeclined = errors.New("payment was not confirmed")

// Processor confirms payment for a session. The core only consumes the final
// paid/pending outcome recorded on the returned invoice.
type Processor interface {
	Confirm(ctx context.Context, session *models.Session, method models.PaymentMethod) (*models.Invoice, error)
}

// UnifiedPaymentProcessor handles both payment paths: online charges go
// through Stripe when a key is configured (simulated otherwise, for local
// development), cash stays pending until settled at the counter.
type UnifiedPaymentProcessor struct {
	Logger *zap.Logger
	// TerminalPaymentMethod is the saved Stripe payment method the kiosk
	// terminal charges against.
	TerminalPaymentMethod string
}

// NewUnifiedPaymentProcessor returns the production processor.
func NewUnifiedPaymentProcessor(logger *zap.Logger, terminalPaymentMethod string) *UnifiedPaymentProcessor {
	return &UnifiedPaymentProcessor{
		Logger:                logger,
		TerminalPaymentMethod: terminalPaymentMethod,
	}
}

func (p *UnifiedPaymentProcessor) Confirm(ctx context.Context, session *models.Session, method models.PaymentMethod) (*models.Invoice, error) {
	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		SessionID: session.ID,
		Amount:    session.Amount,
		Currency:  "usd",
		Method:    string(method),
		Status:    "pending",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	switch method {
	case models.PaymentMethodOnline:
		return p.confirmOnline(ctx, session, inv)
	case models.PaymentMethodCash:
		return p.confirmCash(inv)
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}
}

func (p *UnifiedPaymentProcessor) confirmOnline(ctx context.Context, session *models.Session, inv *models.Invoice) (*models.Invoice, error) {
	if stripe.Key == "" {
		// No gateway configured: simulate a fixed-latency confirmation.
		time.Sleep(1 * time.Second)
		inv.PaymentID = "pi_" + uuid.New().String()
		inv.Status = "paid"
		inv.UpdatedAt = time.Now()
		p.Logger.Info("Simulated online payment", zap.String("invoice", inv.InvoiceID))
		return inv, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(math.Round(session.Amount * 100))),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethod: stripe.String(p.TerminalPaymentMethod),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.Context = ctx
	params.AddMetadata("sessionId", session.ID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent failed: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		p.Logger.Warn("Payment intent not succeeded",
			zap.String("sessionId", session.ID),
			zap.String("intentStatus", string(intent.Status)))
		return nil, ErrDeclined
	}

	inv.PaymentID = intent.ID
	inv.Status = "paid"
	inv.UpdatedAt = time.Now()
	p.Logger.Info("Online payment confirmed", zap.String("invoice", inv.InvoiceID), zap.String("paymentId", intent.ID))
	return inv, nil
}

func (p *UnifiedPaymentProcessor) confirmCash(inv *models.Invoice) (*models.Invoice, error) {
	// Cash is settled at the counter; the invoice stays pending.
	inv.UpdatedAt = time.Now()
	p.Logger.Info("Cash payment recorded", zap.String("invoice", inv.InvoiceID))
	return inv, nil
}
