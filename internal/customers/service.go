package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pos_sales/internal/gateway"
)

var ErrNameRequired = errors.New("customer name is required")

// Backend is the customer slice of the API gateway.
type Backend interface {
	ListCustomers(ctx context.Context) ([]gateway.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*gateway.Customer, error)
	CreateCustomer(ctx context.Context, in gateway.CustomerInput) (*gateway.Customer, error)
}

type Service struct {
	backend Backend
	logger  *zap.Logger
}

// Created is a new customer plus the customer list fetched right after it,
// so the sale screen can pick the newcomer.
type Created struct {
	Customer  *gateway.Customer  `json:"customer"`
	Customers []gateway.Customer `json:"customers"`
}

func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{backend: backend, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]gateway.Customer, error) {
	list, err := s.backend.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, customerID string) (*gateway.Customer, error) {
	c, err := s.backend.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, in gateway.CustomerInput) (*Created, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrNameRequired
	}

	c, err := s.backend.CreateCustomer(ctx, in)
	if err != nil {
		s.logger.Error("failed to create customer", zap.String("name", in.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.logger.Info("customer created", zap.String("customer_id", c.CustomerID))

	list, err := s.List(ctx)
	if err != nil {
		// the customer exists; the caller can still refetch later
		s.logger.Warn("customer list refetch failed", zap.Error(err))
		return &Created{Customer: c}, nil
	}
	return &Created{Customer: c, Customers: list}, nil
}
