package events

import (
	"context"
	"time"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/notify"
)

const DefaultTopic = "cart_events"

type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Publisher forwards cart snapshots and user notifications to kafka, keyed by
// cart owner. Delivery failures are logged and never fail the cart operation.
type Publisher struct {
	Producer EventProducer
	Topic    string
}

func (p *Publisher) PublishCart(ctx context.Context, snap models.Snapshot) {
	p.publish(ctx, snap.Owner, map[string]any{
		"type":    "cart_updated",
		"owner":   snap.Owner,
		"version": snap.Version,
		"items":   snap.Items,
	})
}

func (p *Publisher) Notify(ctx context.Context, n notify.Notification) {
	p.publish(ctx, n.Owner, map[string]any{
		"type":      "cart_notification",
		"owner":     n.Owner,
		"kind":      string(n.Kind),
		"productID": n.ProductID,
		"message":   n.Message,
	})
}

func (p *Publisher) publish(ctx context.Context, key string, event map[string]any) {
	topic := p.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}
