package service

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/language"

	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/notify"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/storage"
)

// DefaultMaxCarts bounds how many carts a Registry keeps in memory.
const DefaultMaxCarts = 10000

type RegistryOptions struct {
	Store     storage.Store
	Catalog   Catalog
	Notifier  notify.Notifier
	Publisher Publisher
	Locale    language.Tag
	MaxCarts  int
}

// Registry hands out one CartService per owner. Each owner's snapshot lives
// under its own namespace of the shared store, so a cart evicted from memory
// is restored on its next use.
type Registry struct {
	opts  RegistryOptions
	carts *lru.Cache[string, *CartService]
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.MaxCarts <= 0 {
		opts.MaxCarts = DefaultMaxCarts
	}
	carts, err := lru.New[string, *CartService](opts.MaxCarts)
	if err != nil {
		panic(err)
	}
	return &Registry{opts: opts, carts: carts}
}

// Get returns the live cart of owner, restoring it from the store on first
// use. Restores run without any registry-wide lock.
func (r *Registry) Get(ctx context.Context, owner string) (*CartService, error) {
	if owner == "" {
		return nil, errors.New("cart: empty owner")
	}
	if svc, ok := r.carts.Get(owner); ok {
		return svc, nil
	}

	svc, err := r.open(ctx, owner)
	if err != nil {
		return nil, err
	}
	if prev, ok, _ := r.carts.PeekOrAdd(owner, svc); ok {
		return prev, nil
	}
	return svc, nil
}

// Snapshot reads the cart of owner without registering it.
func (r *Registry) Snapshot(ctx context.Context, owner string) (models.Snapshot, error) {
	if owner == "" {
		return models.Snapshot{}, errors.New("cart: empty owner")
	}
	if svc, ok := r.carts.Get(owner); ok {
		return svc.Snapshot(), nil
	}

	svc, err := r.open(ctx, owner)
	if err != nil {
		return models.Snapshot{}, err
	}
	return svc.Snapshot(), nil
}

func (r *Registry) Len() int {
	return r.carts.Len()
}

func (r *Registry) open(ctx context.Context, owner string) (*CartService, error) {
	return NewCartService(ctx, Options{
		Owner:     owner,
		Key:       StorageKey,
		Store:     storage.Namespaced(r.opts.Store, "cart:"+owner+":"),
		Catalog:   r.opts.Catalog,
		Notifier:  r.opts.Notifier,
		Publisher: r.opts.Publisher,
		Locale:    r.opts.Locale,
	})
}
