package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/identity"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/report"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// Service builds the owner's revenue and arrears reports from invoices,
// contracts, rooms and tenants
type Service struct {
	invoiceRepo  billing.InvoiceRepository
	contractRepo rental.ContractRepository
	roomRepo     rental.RoomRepository
	userRepo     identity.UserRepository
	logger       *zap.Logger
}

// NewService creates a new report Service
func NewService(
	invoiceRepo billing.InvoiceRepository,
	contractRepo rental.ContractRepository,
	roomRepo rental.RoomRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		invoiceRepo:  invoiceRepo,
		contractRepo: contractRepo,
		roomRepo:     roomRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Revenue totals the paid invoices of one period
func (s *Service) Revenue(ctx context.Context, periodStr string) (*report.RevenueReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "revenue")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrPeriod, periodStr)

	period, err := valueobject.ParsePeriod(periodStr)
	if err != nil {
		err = shared.NewDomainError("BAD_PERIOD_FORMAT", err.Error())
		telemetry.RecordError(span, err)
		return nil, err
	}

	paid, err := s.invoiceRepo.FindPaidByPeriod(ctx, period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load paid invoices: %w", err)
	}

	r := report.BuildRevenueReport(period, paid)
	return &r, nil
}

// Arrears lists every outstanding invoice with room and tenant context
func (s *Service) Arrears(ctx context.Context) (*report.ArrearsReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "arrears")
	defer span.End()

	now := time.Now()
	outstanding, err := s.invoiceRepo.FindOutstanding(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load outstanding invoices: %w", err)
	}

	entries := make([]report.ArrearsEntry, 0, len(outstanding))
	for _, invoice := range outstanding {
		entry := report.ArrearsEntry{
			InvoiceID:   invoice.ID,
			ContractID:  invoice.ContractID,
			Period:      invoice.Period,
			Amount:      invoice.Total,
			DueDate:     invoice.DueDate,
			DaysOverdue: invoice.DaysOverdue(now),
		}

		contract, err := s.contractRepo.FindByID(ctx, invoice.ContractID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to load contract: %w", err)
		}
		if contract != nil {
			room, err := s.roomRepo.FindByID(ctx, contract.RoomID)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, fmt.Errorf("failed to load room: %w", err)
			}
			if room != nil {
				entry.RoomName = room.Name
			}

			tenant, err := s.userRepo.FindByID(ctx, contract.TenantID)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, fmt.Errorf("failed to load tenant: %w", err)
			}
			if tenant != nil {
				entry.TenantName = tenant.FullName
				entry.TenantEmail = tenant.Email
			}
		}

		entries = append(entries, entry)
	}

	r := report.NewArrearsReport(now, entries)

	s.logger.Debug("Arrears report built",
		zap.Int("entries", len(r.Entries)),
		zap.String("total", r.Total.String()),
	)

	return &r, nil
}
