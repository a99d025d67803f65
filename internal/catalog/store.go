package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/gateway"
)

const snapshotKey = "pos:catalog:snapshot"

// Source lists the catalog from the backend.
type Source interface {
	ListProducts(ctx context.Context) ([]gateway.Product, error)
	ListServices(ctx context.Context) ([]gateway.Service, error)
}

// Store hands out catalog snapshots, loading from the backend on a cache miss.
type Store struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewStore(source Source, cache Cache, ttl time.Duration, logger *zap.Logger) *Store {
	if cache == nil {
		cache = NoopCache{}
	}
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Store{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns the cached catalog, or loads a fresh one. A broken cache
// only costs a backend round trip.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, ok, err := s.cache.Get(ctx, snapshotKey)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	}
	if ok && snap != nil {
		return snap, nil
	}
	return s.load(ctx)
}

// Refresh drops the cached snapshot and loads the catalog again.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	if err := s.cache.Delete(ctx, snapshotKey); err != nil {
		s.logger.Warn("catalog cache delete failed", zap.Error(err))
	}
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	services, err := s.source.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}

	snap := &Snapshot{
		Items:    make(map[Key]Item, len(products)+len(services)),
		LoadedAt: s.now(),
	}
	for _, p := range products {
		key := KeyFor(KindProduct, p.ProductID)
		snap.Items[key] = Item{
			Key:        key,
			Kind:       KindProduct,
			ID:         p.ProductID,
			SKU:        p.SKU,
			Name:       p.Name,
			Price:      decimal.NewFromFloat(p.Price),
			PriceFixed: p.PriceFixed,
		}
	}
	for _, sv := range services {
		key := KeyFor(KindService, sv.ServiceID)
		snap.Items[key] = Item{
			Key:        key,
			Kind:       KindService,
			ID:         sv.ServiceID,
			SKU:        sv.SKU,
			Name:       sv.Name,
			Price:      decimal.NewFromFloat(sv.Price),
			PriceFixed: sv.PriceFixed,
		}
	}

	if err := s.cache.Set(ctx, snapshotKey, snap, s.ttl); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}

	s.logger.Info("catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("services", len(services)),
	)
	return snap, nil
}
