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

// DefaultPaymentTermDays is the gap between issue and due date when the
// caller does not supply a due date.
const DefaultPaymentTermDays = 30

// InvoiceService handles invoice generation and the invoice lifecycle
type InvoiceService struct {
	invoiceRepo     billing.InvoiceRepository
	txScope         TransactionScope
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	paymentTermDays int
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, txScope TransactionScope, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		txScope:         txScope,
		logger:          logger,
		paymentTermDays: DefaultPaymentTermDays,
	}
}

// SetPaymentTermDays overrides the default gap between issue and due date
func (s *InvoiceService) SetPaymentTermDays(days int) {
	if days > 0 {
		s.paymentTermDays = days
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvoiceService) publishDomainEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil || invoice == nil {
		return
	}
	events := invoice.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	invoice.ClearDomainEvents()
}

// GenerateInvoiceInput represents a request to generate an invoice
type GenerateInvoiceInput struct {
	ContractID uuid.UUID
	Period     string // "YYYY-MM"
	OtherFees  valueobject.Money
	// DueDate defaults to issue time plus the configured payment term
	DueDate *time.Time
}

// GenerateInvoice builds the invoice for a contract period: rent from the
// contract, utilities from the period's meter reading, other fees from the
// caller. A missing reading is not an error; the utility components are
// zero and the invoice can be amended once the reading arrives.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, input GenerateInvoiceInput) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractID, input.ContractID.String(),
		telemetry.SpanAttrPeriod, input.Period,
	)

	period, err := valueobject.ParsePeriod(input.Period)
	if err != nil {
		err = shared.NewDomainError("BAD_PERIOD_FORMAT", err.Error())
		telemetry.RecordError(span, err)
		return nil, err
	}

	var invoice *billing.Invoice
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		contract, err := repos.ContractRepo().FindByID(ctx, input.ContractID)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if contract == nil {
			return shared.NewDomainError("NOT_FOUND", "Contract not found")
		}
		if !contract.IsActive() {
			return shared.NewDomainError("CONTRACT_NOT_ACTIVE",
				fmt.Sprintf("Contract is %s, invoices require an active contract", contract.Status))
		}

		existing, err := repos.InvoiceRepo().FindByContractAndPeriod(ctx, input.ContractID, period)
		if err != nil {
			return fmt.Errorf("failed to check existing invoice: %w", err)
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_INVOICE",
				fmt.Sprintf("Contract already has an invoice for %s", period))
		}

		electricCost := valueobject.ZeroVND()
		waterCost := valueobject.ZeroVND()
		reading, err := repos.ReadingRepo().FindByContractAndPeriod(ctx, input.ContractID, period)
		if err != nil {
			return fmt.Errorf("failed to get meter reading: %w", err)
		}
		if reading != nil {
			electric, err := reading.ElectricUsage()
			if err != nil {
				return err
			}
			water, err := reading.WaterUsage()
			if err != nil {
				return err
			}
			electricCost = electric.Cost
			waterCost = water.Cost
		} else {
			s.logger.Warn("No meter reading for invoiced period, utility costs are zero",
				zap.String("contract_id", input.ContractID.String()),
				zap.String("period", period.String()),
			)
		}

		otherFees := input.OtherFees
		if otherFees.Currency() == "" {
			otherFees = valueobject.ZeroVND()
		}

		issuedAt := time.Now()
		dueDate := issuedAt.AddDate(0, 0, s.paymentTermDays)
		if input.DueDate != nil {
			dueDate = *input.DueDate
		}

		invoice, err = billing.NewInvoice(
			input.ContractID,
			period,
			contract.MonthlyRent,
			electricCost,
			waterCost,
			otherFees,
			issuedAt,
			dueDate,
		)
		if err != nil {
			return err
		}

		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, invoice)
	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceID, invoice.ID.String())
	return invoice, nil
}

// GetInvoice returns an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return invoice, nil
}

// ListInvoices returns invoices matching the filter
func (s *InvoiceService) ListInvoices(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// SendInvoice marks an invoice as delivered to the tenant
func (s *InvoiceService) SendInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, id, "send", (*billing.Invoice).MarkSent)
}

// CancelInvoice voids an invoice
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, id, "cancel", (*billing.Invoice).Cancel)
}

// MarkInvoicePaid settles an invoice manually, outside payment
// reconciliation. Idempotent on an already paid invoice.
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, id, "mark_paid", (*billing.Invoice).MarkPaid)
}

// MarkInvoiceOverdue flags a single unpaid invoice past its due date
func (s *InvoiceService) MarkInvoiceOverdue(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutate(ctx, id, "mark_overdue", (*billing.Invoice).MarkOverdue)
}

// UpdateInvoiceFees replaces the other-fees component of an unpaid invoice
func (s *InvoiceService) UpdateInvoiceFees(ctx context.Context, id uuid.UUID, otherFees valueobject.Money) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "update_fees")
	defer span.End()

	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}
		if err := invoice.UpdateComponents(invoice.RentAmount, invoice.ElectricCost, invoice.WaterCost, otherFees); err != nil {
			return err
		}
		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, invoice)
	return invoice, nil
}

// OverdueSweepResult reports one invoice touched by the overdue sweep
type OverdueSweepResult struct {
	InvoiceID   uuid.UUID          `json:"invoice_id"`
	ContractID  uuid.UUID          `json:"contract_id"`
	Period      valueobject.Period `json:"period"`
	Total       valueobject.Money  `json:"total"`
	DueDate     time.Time          `json:"due_date"`
	DaysOverdue int                `json:"days_overdue"`
	Marked      bool               `json:"marked"`
}

// SweepOverdue flags every unpaid invoice past its due date as OVERDUE.
// With dryRun set, it reports what would be flagged without writing.
func (s *InvoiceService) SweepOverdue(ctx context.Context, asOf time.Time, dryRun bool) ([]OverdueSweepResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "sweep_overdue")
	defer span.End()

	telemetry.SetAttribute(span, "dry_run", dryRun)

	if asOf.IsZero() {
		asOf = time.Now()
	}

	var (
		results []OverdueSweepResult
		marked  []*billing.Invoice
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindOutstandingPastDue(ctx, asOf)
		if err != nil {
			return fmt.Errorf("failed to find past-due invoices: %w", err)
		}

		for _, invoice := range invoices {
			result := OverdueSweepResult{
				InvoiceID:   invoice.ID,
				ContractID:  invoice.ContractID,
				Period:      invoice.Period,
				Total:       invoice.Total,
				DueDate:     invoice.DueDate,
				DaysOverdue: invoice.DaysOverdue(asOf),
			}

			if !dryRun && invoice.Status == billing.InvoiceStatusUnpaid {
				if err := invoice.MarkOverdue(); err != nil {
					return err
				}
				if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
					return fmt.Errorf("failed to save invoice: %w", err)
				}
				result.Marked = true
				marked = append(marked, invoice)
			}

			results = append(results, result)
		}

		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	for _, invoice := range marked {
		s.publishDomainEvents(ctx, invoice)
	}

	s.logger.Info("Overdue sweep finished",
		zap.Int("candidates", len(results)),
		zap.Bool("dry_run", dryRun),
	)

	return results, nil
}

func (s *InvoiceService) mutate(
	ctx context.Context,
	id uuid.UUID,
	method string,
	apply func(*billing.Invoice) error,
) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", method)
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceID, id.String())

	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}
		if err := apply(invoice); err != nil {
			return err
		}
		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, invoice)
	return invoice, nil
}
