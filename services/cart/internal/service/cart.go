package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/text/language"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/notify"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/storage"
)

// StorageKey is the key the cart snapshot lives under.
const StorageKey = "@RocketShoes:cart"

type Catalog interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	GetStock(ctx context.Context, id int) (*models.Stock, error)
}

// Publisher receives every snapshot after it becomes the current cart.
type Publisher interface {
	PublishCart(ctx context.Context, snap models.Snapshot)
}

type Options struct {
	Owner     string
	Key       string
	Store     storage.Store
	Catalog   Catalog
	Notifier  notify.Notifier
	Publisher Publisher
	Locale    language.Tag
}

// CartService owns one cart. Every operation holds mu from validation through
// persist, so operations on the same cart never interleave and a slow stock
// lookup cannot overwrite a newer state. Notifications and snapshots go out
// after mu is released; consumers order snapshots by Version.
type CartService struct {
	owner     string
	key       string
	store     storage.Store
	catalog   Catalog
	notifier  notify.Notifier
	publisher Publisher
	locale    language.Tag

	mu      sync.Mutex
	items   []models.Product
	version uint64
}

// NewCartService restores the cart persisted under opts.Key.
func NewCartService(ctx context.Context, opts Options) (*CartService, error) {
	if opts.Store == nil {
		return nil, errors.New("cart: store is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("cart: catalog is required")
	}
	if opts.Key == "" {
		opts.Key = StorageKey
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.LogNotifier{}
	}
	if opts.Locale == language.Und {
		opts.Locale = notify.DefaultLocale
	}

	s := &CartService{
		owner:     opts.Owner,
		key:       opts.Key,
		store:     opts.Store,
		catalog:   opts.Catalog,
		notifier:  opts.Notifier,
		publisher: opts.Publisher,
		locale:    opts.Locale,
	}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CartService) restore(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "cart.restore", "owner", s.owner)

	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	s.items = []models.Product{}
	if !ok || raw == "" {
		return nil
	}

	var stored []models.Product
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		l.Warn("cart_restore_corrupt", "error", err)
		return nil
	}

	seen := make(map[int]struct{}, len(stored))
	for _, p := range stored {
		if _, dup := seen[p.ID]; dup || p.Amount < 1 {
			l.Warn("cart_restore_dropped_entry", "product_id", p.ID, "amount", p.Amount)
			continue
		}
		seen[p.ID] = struct{}{}
		s.items = append(s.items, p)
	}
	return nil
}

func (s *CartService) Cart() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *CartService) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartService) AddProduct(ctx context.Context, productID int) error {
	out, err := s.addProduct(ctx, productID)
	s.deliver(ctx, out)
	return err
}

func (s *CartService) addProduct(ctx context.Context, productID int) (outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := logging.FromContext(ctx).With("svc", "cart.add_product", "owner", s.owner, "product_id", productID)

	idx := s.indexOf(productID)
	target := 1
	if idx >= 0 {
		target = s.items[idx].Amount + 1
	}

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		l.Error("add_product_error", "reason", "cannot get stock", "error", err)
		return s.fail(ctx, productID, fmt.Errorf("%w: %w", ErrAddFailed, err))
	}
	if stock.Amount < target {
		l.Warn("add_product_rejected", "requested", target, "available", stock.Amount)
		return s.fail(ctx, productID, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, target, stock.Amount))
	}

	next := cloneItems(s.items)
	if idx >= 0 {
		next[idx].Amount = target
	} else {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			l.Error("add_product_error", "reason", "cannot get product", "error", err)
			return s.fail(ctx, productID, fmt.Errorf("%w: %w", ErrAddFailed, err))
		}
		if product.ID != productID {
			l.Error("add_product_error", "reason", "catalog returned another product", "got_id", product.ID)
			return s.fail(ctx, productID, fmt.Errorf("%w: catalog returned product %d", ErrAddFailed, product.ID))
		}
		entry := *product
		entry.Amount = 1
		next = append(next, entry)
	}

	snap, err := s.commit(ctx, next)
	if err != nil {
		l.Error("add_product_error", "reason", "cannot persist cart", "error", err)
		return s.fail(ctx, productID, fmt.Errorf("%w: %w", ErrAddFailed, err))
	}

	l.Info("add_product_success", "amount", target)
	return outcome{snap: &snap}, nil
}

func (s *CartService) RemoveProduct(ctx context.Context, productID int) error {
	out, err := s.removeProduct(ctx, productID)
	s.deliver(ctx, out)
	return err
}

func (s *CartService) removeProduct(ctx context.Context, productID int) (outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := logging.FromContext(ctx).With("svc", "cart.remove_product", "owner", s.owner, "product_id", productID)

	idx := s.indexOf(productID)
	if idx < 0 {
		l.Warn("remove_product_rejected", "reason", "product not in cart")
		return s.fail(ctx, productID, fmt.Errorf("%w: %w: product %d is not in the cart", ErrRemoveFailed, ErrNotFound, productID))
	}

	next := make([]models.Product, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)

	snap, err := s.commit(ctx, next)
	if err != nil {
		l.Error("remove_product_error", "reason", "cannot persist cart", "error", err)
		return s.fail(ctx, productID, fmt.Errorf("%w: %w", ErrRemoveFailed, err))
	}

	l.Info("remove_product_success")
	return outcome{snap: &snap}, nil
}

// UpdateProductAmount sets an absolute quantity. Amounts below one are
// ignored; removing an item goes through RemoveProduct.
func (s *CartService) UpdateProductAmount(ctx context.Context, req models.UpdateProductAmount) error {
	if req.Amount <= 0 {
		return nil
	}
	out, err := s.updateProductAmount(ctx, req)
	s.deliver(ctx, out)
	return err
}

func (s *CartService) updateProductAmount(ctx context.Context, req models.UpdateProductAmount) (outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := logging.FromContext(ctx).With("svc", "cart.update_amount", "owner", s.owner, "product_id", req.ProductID)

	stock, err := s.catalog.GetStock(ctx, req.ProductID)
	if err != nil {
		l.Error("update_amount_error", "reason", "cannot get stock", "error", err)
		return s.fail(ctx, req.ProductID, fmt.Errorf("%w: %w", ErrUpdateFailed, err))
	}
	if stock.Amount <= 0 || stock.Amount < req.Amount {
		l.Warn("update_amount_rejected", "requested", req.Amount, "available", stock.Amount)
		return s.fail(ctx, req.ProductID, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, req.Amount, stock.Amount))
	}

	idx := s.indexOf(req.ProductID)
	if idx < 0 {
		l.Warn("update_amount_rejected", "reason", "product not in cart")
		return s.fail(ctx, req.ProductID, fmt.Errorf("%w: %w: product %d is not in the cart", ErrUpdateFailed, ErrNotFound, req.ProductID))
	}

	next := cloneItems(s.items)
	next[idx].Amount = req.Amount

	snap, err := s.commit(ctx, next)
	if err != nil {
		l.Error("update_amount_error", "reason", "cannot persist cart", "error", err)
		return s.fail(ctx, req.ProductID, fmt.Errorf("%w: %w", ErrUpdateFailed, err))
	}

	l.Info("update_amount_success", "amount", req.Amount)
	return outcome{snap: &snap}, nil
}

// outcome carries what an operation hands to the notifier and publisher.
// It is delivered after mu is released so a slow broker never holds the cart.
type outcome struct {
	snap *models.Snapshot
	note *notify.Notification
}

// commit persists next and only then makes it the current cart.
func (s *CartService) commit(ctx context.Context, next []models.Product) (models.Snapshot, error) {
	data, err := json.Marshal(next)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("encode cart: %w", err)
	}
	if err := s.store.Set(ctx, s.key, string(data)); err != nil {
		return models.Snapshot{}, fmt.Errorf("persist cart: %w", err)
	}

	s.items = next
	s.version++
	return s.snapshotLocked(), nil
}

// fail builds the notification for err in the caller's locale, falling back
// to the service default.
func (s *CartService) fail(ctx context.Context, productID int, err error) (outcome, error) {
	kind := KindOf(err)
	return outcome{note: &notify.Notification{
		Kind:      kind,
		Owner:     s.owner,
		ProductID: productID,
		Message:   notify.Message(kind, notify.LocaleFrom(ctx, s.locale)),
	}}, err
}

func (s *CartService) deliver(ctx context.Context, out outcome) {
	if out.note != nil {
		s.notifier.Notify(ctx, *out.note)
	}
	if out.snap != nil && s.publisher != nil {
		s.publisher.PublishCart(ctx, *out.snap)
	}
}

func (s *CartService) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Owner:   s.owner,
		Version: s.version,
		Items:   cloneItems(s.items),
	}
}

func (s *CartService) indexOf(productID int) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []models.Product) []models.Product {
	out := make([]models.Product, len(items))
	copy(out, items)
	return out
}
