package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"pos_sales/internal/catalog"
	"pos_sales/internal/gateway"
)

// ErrSubmitInProgress is returned while a draft is being submitted.
var ErrSubmitInProgress = errors.New("sale submission already in progress")

// CatalogSource hands out the catalog snapshot line selections are resolved
// against.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Service provides the draft workflow of the point of sale on top of a
// Storage backend.
type Service struct {
	storage   Storage
	catalog   CatalogSource
	backend   Backend
	submitter *Submitter
	logger    *zap.Logger
	now       func() time.Time
}

// SubmitResult is the persisted header plus the draft that replaces the
// submitted one.
type SubmitResult struct {
	Sale *gateway.Sale `json:"sale"`
	Next *Draft        `json:"next"`
}

// NewService creates a new Service.
func NewService(storage Storage, source CatalogSource, backend Backend, logger *zap.Logger, compensate bool) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Service{
		storage:   storage,
		catalog:   source,
		backend:   backend,
		submitter: NewSubmitter(backend, logger, compensate),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateDraft starts a new sale.
func (s *Service) CreateDraft() (*Draft, error) {
	d := NewDraft(s.now())
	if err := s.storage.Set(d); err != nil {
		s.logger.Error("failed to save draft", zap.String("sale_id", d.SaleID), zap.Error(err))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	s.logger.Info("draft created", zap.String("sale_id", d.SaleID))
	return d, nil
}

func (s *Service) GetDraft(id string) (*Draft, error) {
	return s.storage.Read(id)
}

// ListDrafts returns the open drafts, oldest first.
func (s *Service) ListDrafts() ([]*Draft, error) {
	drafts, err := s.storage.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.Before(drafts[j].CreatedAt)
	})
	return drafts, nil
}

// edit applies fn to a draft that is not being submitted.
func (s *Service) edit(id string, fn func(d *Draft) error) (*Draft, error) {
	return s.storage.Update(id, func(d *Draft) error {
		if d.Submitting {
			return ErrSubmitInProgress
		}
		if err := fn(d); err != nil {
			return err
		}
		d.UpdatedAt = s.now()
		return nil
	})
}

func (s *Service) UpdateHeader(id string, m HeaderMutation) (*Draft, error) {
	return s.edit(id, func(d *Draft) error { return d.ApplyHeader(m) })
}

// AddLine appends an empty line and returns the draft and the new line id.
func (s *Service) AddLine(id string) (*Draft, string, error) {
	var lineID string
	d, err := s.edit(id, func(d *Draft) error {
		lineID = d.AddLine().LineID
		return nil
	})
	return d, lineID, err
}

// UpdateLine edits one line. Catalog selections are resolved against the
// current catalog snapshot.
func (s *Service) UpdateLine(ctx context.Context, id, lineID string, m LineMutation) (*Draft, error) {
	var snap *catalog.Snapshot
	if m.Field == FieldCatalog {
		var err error
		snap, err = s.catalog.Snapshot(ctx)
		if err != nil {
			s.logger.Error("failed to load catalog", zap.Error(err))
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	}
	return s.edit(id, func(d *Draft) error { return d.UpdateLine(lineID, m, snap) })
}

func (s *Service) RemoveLine(id, lineID string) (*Draft, error) {
	return s.edit(id, func(d *Draft) error { return d.RemoveLine(lineID) })
}

// AddPayment appends a blank payment row and returns the draft and the row id.
func (s *Service) AddPayment(id string) (*Draft, string, error) {
	var paymentID string
	d, err := s.edit(id, func(d *Draft) error {
		paymentID = d.AddPayment().PaymentID
		return nil
	})
	return d, paymentID, err
}

func (s *Service) UpsertPayment(id, paymentID string, method PaymentMethod, amount Amount) (*Draft, error) {
	return s.edit(id, func(d *Draft) error { return d.UpsertPayment(paymentID, method, amount) })
}

func (s *Service) RemovePayment(id, paymentID string) (*Draft, error) {
	return s.edit(id, func(d *Draft) error { return d.RemovePayment(paymentID) })
}

// ResetDraft discards a draft and starts a new one in its place.
func (s *Service) ResetDraft(id string) (*Draft, error) {
	if _, err := s.edit(id, func(*Draft) error { return nil }); err != nil {
		return nil, err
	}
	if err := s.storage.Delete(id); err != nil {
		return nil, err
	}
	s.logger.Info("draft reset", zap.String("sale_id", id))
	return s.CreateDraft()
}

// Submit persists a draft on the backend. Only one submission per draft may
// run at a time. On success the draft is replaced by a fresh one; on failure
// it is kept as it was so the cashier can retry.
func (s *Service) Submit(ctx context.Context, actor Actor, id string) (*SubmitResult, error) {
	draft, err := s.storage.Update(id, func(d *Draft) error {
		if d.Submitting {
			return ErrSubmitInProgress
		}
		d.Submitting = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.submitter.Submit(ctx, actor, draft)
	if err != nil {
		if _, uerr := s.storage.Update(id, func(d *Draft) error {
			d.Submitting = false
			return nil
		}); uerr != nil {
			s.logger.Error("failed to release draft", zap.String("sale_id", id), zap.Error(uerr))
		}
		return nil, err
	}

	if err := s.storage.Delete(id); err != nil {
		s.logger.Warn("failed to drop submitted draft", zap.String("sale_id", id), zap.Error(err))
	}
	next, err := s.CreateDraft()
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Sale: sale, Next: next}, nil
}
