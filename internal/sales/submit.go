package sales

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pos_sales/internal/catalog"
	"pos_sales/internal/gateway"
)

const rollbackTimeout = 30 * time.Second

// Backend is the slice of the API gateway the sales workflows call.
type Backend interface {
	CreateSale(ctx context.Context, in gateway.SaleInput) (*gateway.Sale, error)
	GetSale(ctx context.Context, saleID string) (*gateway.Sale, error)
	DeleteSale(ctx context.Context, saleID string) error
	CreateSaleDetail(ctx context.Context, in gateway.SaleDetail) (*gateway.SaleDetail, error)
	DeleteSaleDetail(ctx context.Context, saleDetailID string) error
	CreatePayment(ctx context.Context, in gateway.Payment) (*gateway.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
	ListSalePayments(ctx context.Context, saleID string) ([]gateway.Payment, error)
}

// Step names the stage of a submission.
type Step string

const (
	StepHeader  Step = "header"
	StepDetail  Step = "detail"
	StepPayment Step = "payment"
)

// Record is something a submission persisted on the backend.
type Record struct {
	Kind Step   `json:"kind"`
	ID   string `json:"id"`
}

// SubmitError reports a failed submission. RolledBack means the backend
// holds nothing of the sale. Otherwise Orphans lists what is still there:
// the records whose undo failed, or everything created so far when
// compensation is disabled.
type SubmitError struct {
	Step        Step
	Err         error
	RolledBack  bool
	RollbackErr error
	Orphans     []Record
}

func (e *SubmitError) Error() string {
	msg := fmt.Sprintf("sale submission failed at %s step: %v", e.Step, e.Err)
	if e.RollbackErr != nil {
		msg += fmt.Sprintf("; rollback failed: %v", e.RollbackErr)
	}
	return msg
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

type compensation struct {
	record Record
	undo   func(ctx context.Context) error
}

// Submitter persists a draft as header, then details, then payments, one
// call at a time. With compensation on, a failure undoes the completed calls
// in reverse order.
type Submitter struct {
	backend    Backend
	logger     *zap.Logger
	compensate bool
}

func NewSubmitter(backend Backend, logger *zap.Logger, compensate bool) *Submitter {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Submitter{
		backend:    backend,
		logger:     logger,
		compensate: compensate,
	}
}

// Submit validates the draft and persists it. Validation failures make no
// backend call.
func (s *Submitter) Submit(ctx context.Context, actor Actor, d *Draft) (*gateway.Sale, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	var done []compensation

	sale, err := s.backend.CreateSale(ctx, gateway.SaleInput{
		SaleID:        d.SaleID,
		CustomerID:    d.CustomerID,
		Comment:       d.Comment,
		Total:         d.Total.InexactFloat64(),
		TotalPayments: d.TotalPayments.InexactFloat64(),
		CreatedBy:     actor.Username,
	})
	if err != nil {
		s.logger.Error("failed to create sale header", zap.String("sale_id", d.SaleID), zap.Error(err))
		return nil, &SubmitError{Step: StepHeader, Err: err, RolledBack: true}
	}
	saleID := sale.SaleID
	done = append(done, compensation{
		record: Record{Kind: StepHeader, ID: saleID},
		undo:   func(ctx context.Context) error { return s.backend.DeleteSale(ctx, saleID) },
	})

	for _, l := range d.Lines {
		if !l.Selected() {
			continue
		}
		detail, err := s.backend.CreateSaleDetail(ctx, detailFor(saleID, l))
		if err != nil {
			s.logger.Error("failed to create sale detail",
				zap.String("sale_id", saleID),
				zap.String("line_id", l.LineID),
				zap.Error(err),
			)
			return nil, s.fail(ctx, StepDetail, err, done)
		}
		detailID := detail.SaleDetailID
		done = append(done, compensation{
			record: Record{Kind: StepDetail, ID: detailID},
			undo:   func(ctx context.Context) error { return s.backend.DeleteSaleDetail(ctx, detailID) },
		})
	}

	for _, p := range d.Payments {
		if !p.Amount.Positive() {
			continue
		}
		payment, err := s.backend.CreatePayment(ctx, gateway.Payment{
			PaymentID: p.PaymentID,
			SaleID:    saleID,
			MethodID:  int(p.MethodID),
			Amount:    p.Amount.Value.InexactFloat64(),
			CreatedBy: actor.Username,
		})
		if err != nil {
			s.logger.Error("failed to create payment",
				zap.String("sale_id", saleID),
				zap.String("payment_id", p.PaymentID),
				zap.Error(err),
			)
			return nil, s.fail(ctx, StepPayment, err, done)
		}
		paymentID := payment.PaymentID
		done = append(done, compensation{
			record: Record{Kind: StepPayment, ID: paymentID},
			undo:   func(ctx context.Context) error { return s.backend.DeletePayment(ctx, paymentID) },
		})
	}

	s.logger.Info("sale submitted",
		zap.String("sale_id", saleID),
		zap.String("actor", actor.Username),
		zap.Int("records", len(done)),
		zap.String("total", d.Total.String()),
	)
	return sale, nil
}

func (s *Submitter) fail(ctx context.Context, step Step, cause error, done []compensation) error {
	if !s.compensate {
		orphans := make([]Record, len(done))
		for i, c := range done {
			orphans[i] = c.record
		}
		s.logger.Warn("sale left partially persisted", zap.Any("orphans", orphans))
		return &SubmitError{Step: step, Err: cause, Orphans: orphans}
	}

	// The caller's context may already be cancelled; the rollback still has
	// to reach the backend.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	var rollbackErr error
	var orphans []Record
	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		if err := c.undo(rctx); err != nil {
			rollbackErr = multierr.Append(rollbackErr, fmt.Errorf("undo %s %s: %w", c.record.Kind, c.record.ID, err))
			orphans = append(orphans, c.record)
		}
	}

	if rollbackErr != nil {
		s.logger.Error("sale rollback incomplete", zap.Any("orphans", orphans), zap.Error(rollbackErr))
	} else {
		s.logger.Info("sale rolled back", zap.Int("undone", len(done)))
	}

	return &SubmitError{
		Step:        step,
		Err:         cause,
		RolledBack:  rollbackErr == nil,
		RollbackErr: rollbackErr,
		Orphans:     orphans,
	}
}

// detailFor maps a line to a product or a service reference, never both.
func detailFor(saleID string, l *LineItem) gateway.SaleDetail {
	detail := gateway.SaleDetail{
		SaleDetailID: l.LineID,
		SaleID:       saleID,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice.InexactFloat64(),
		Total:        l.LineTotal.InexactFloat64(),
	}
	ref := l.CatalogRefID
	if l.Kind == catalog.KindService {
		detail.ServiceID = &ref
	} else {
		detail.ProductID = &ref
	}
	return detail
}
