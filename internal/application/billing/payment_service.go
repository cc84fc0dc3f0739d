package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// PaymentService records payments against invoices and keeps the invoice
// status reconciled with the confirmed payment sum. Every mutation re-reads
// the invoice and all of its payments inside one transaction before the
// derived status is written back.
type PaymentService struct {
	paymentRepo    billing.PaymentRepository
	txScope        TransactionScope
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo billing.PaymentRepository, txScope TransactionScope, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PaymentService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, aggregate := range aggregates {
		events := aggregate.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		aggregate.ClearDomainEvents()
	}
}

// RecordPaymentInput represents a request to record a payment
type RecordPaymentInput struct {
	InvoiceID uuid.UUID
	Amount    valueobject.Money
	Method    billing.PaymentMethod
	Reference string
	PaidAt    time.Time
	// Status is the initial payment status. Empty defaults to CONFIRMED:
	// the landlord records money already in hand. Callers pass PENDING to
	// defer settlement until the transfer clears.
	Status billing.PaymentStatus
}

// RecordPayment records a payment against an invoice and reconciles the
// invoice status
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*billing.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, input.InvoiceID.String(),
		telemetry.SpanAttrAmount, input.Amount.String(),
	)

	var (
		payment *billing.Payment
		invoice *billing.Invoice
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, input.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}
		if invoice.Status == billing.InvoiceStatusCancelled {
			return shared.NewDomainError("INVOICE_CANCELLED", "Cannot pay a cancelled invoice")
		}

		payment, err = billing.NewPayment(input.InvoiceID, input.Amount, input.Method, input.Reference, input.PaidAt)
		if err != nil {
			return err
		}
		status := input.Status
		if status == "" {
			status = billing.PaymentStatusConfirmed
		}
		switch status {
		case billing.PaymentStatusConfirmed:
			if err := payment.Confirm(); err != nil {
				return err
			}
		case billing.PaymentStatusPending:
		default:
			return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Initial payment status must be PENDING or CONFIRMED")
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		return s.reconcile(ctx, repos, invoice)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, payment, invoice)
	return payment, nil
}

// GetPayment returns a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return payment, nil
}

// ListPayments returns payments matching the filter
func (s *PaymentService) ListPayments(ctx context.Context, filter billing.PaymentFilter) ([]*billing.Payment, error) {
	payments, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ConfirmPayment confirms a pending payment and reconciles the invoice
func (s *PaymentService) ConfirmPayment(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	return s.transition(ctx, id, "confirm", (*billing.Payment).Confirm)
}

// FailPayment marks a pending payment as failed and reconciles the invoice
func (s *PaymentService) FailPayment(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	return s.transition(ctx, id, "fail", (*billing.Payment).Fail)
}

func (s *PaymentService) transition(
	ctx context.Context,
	id uuid.UUID,
	method string,
	apply func(*billing.Payment) error,
) (*billing.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", method)
	defer span.End()

	var (
		payment *billing.Payment
		invoice *billing.Invoice
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get payment: %w", err)
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}
		if err := apply(payment); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		invoice, err = repos.InvoiceRepo().FindByID(ctx, payment.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}
		return s.reconcile(ctx, repos, invoice)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, payment, invoice)
	return payment, nil
}

func (s *PaymentService) reconcile(ctx context.Context, repos TransactionalRepositories, invoice *billing.Invoice) error {
	payments, err := repos.PaymentRepo().FindByInvoice(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load invoice payments: %w", err)
	}

	changed, err := billing.Reconcile(invoice, payments)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("Invoice status reconciled",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("status", string(invoice.Status)),
	)
	return nil
}
