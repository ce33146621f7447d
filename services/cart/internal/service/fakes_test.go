package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/storage"
)

var errCatalogDown = errors.New("catalog down")

type fakeCatalog struct {
	mu       sync.Mutex
	stock    map[int]int
	products map[int]models.Product

	stockErr   error
	productErr error
	delay      time.Duration

	stockCalls   atomic.Int32
	productCalls atomic.Int32
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		stock:    map[int]int{},
		products: map[int]models.Product{},
	}
}

func (f *fakeCatalog) withProduct(id, stock int) *fakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[id] = stock
	f.products[id] = models.Product{ID: id, Title: "Tênis", Price: 139.9, Image: "https://example.com/tenis.jpg"}
	return f
}

func (f *fakeCatalog) GetStock(ctx context.Context, id int) (*models.Stock, error) {
	f.stockCalls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stockErr != nil {
		return nil, f.stockErr
	}
	amount, ok := f.stock[id]
	if !ok {
		return nil, errors.New("stock not found")
	}
	return &models.Stock{ID: id, Amount: amount}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int) (*models.Product, error) {
	f.productCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productErr != nil {
		return nil, f.productErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

// flakyStore fails writes while failSet is true.
type flakyStore struct {
	storage.Store
	failSet atomic.Bool
	sets    atomic.Int32
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	s.sets.Add(1)
	if s.failSet.Load() {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, string) error {
	return errors.New("connection refused")
}

type recordingPublisher struct {
	mu    sync.Mutex
	snaps []models.Snapshot
}

func (p *recordingPublisher) PublishCart(_ context.Context, snap models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
}

func (p *recordingPublisher) all() []models.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Snapshot(nil), p.snaps...)
}
