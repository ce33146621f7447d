package notify

import (
	"context"
	"sync"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
)

type Kind string

const (
	KindInsufficientStock Kind = "insufficient_stock"
	KindAddFailed         Kind = "add_failed"
	KindRemoveFailed      Kind = "remove_failed"
	KindUpdateFailed      Kind = "update_failed"
)

// Notification is what the storefront shows the user as a toast.
type Notification struct {
	Kind      Kind   `json:"kind"`
	Owner     string `json:"owner"`
	ProductID int    `json:"product_id"`
	Message   string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(ctx, n)
		}
	}
}

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	logging.FromContext(ctx).Warn("cart_notification",
		"kind", string(n.Kind),
		"owner", n.Owner,
		"product_id", n.ProductID,
		"message", n.Message,
	)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, 0, len(r.list))
	for _, n := range r.list {
		out = append(out, n.Kind)
	}
	return out
}

var _ Notifier = (*Recorder)(nil)
var _ Notifier = LogNotifier{}
var _ Notifier = Multi(nil)
