package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/loreycode/cms-api/types"
)

const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionReceived = "received"
)

// Publisher is the subset of mq.MQ used to emit events.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Notifier publishes change events. A nil Notifier, or one without a
// publisher, drops every event.
type Notifier struct {
	pub            Publisher
	contentChannel string
	contactChannel string
	logger         *slog.Logger
	now            func() time.Time
}

func NewNotifier(pub Publisher, contentChannel, contactChannel string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		pub:            pub,
		contentChannel: contentChannel,
		contactChannel: contactChannel,
		logger:         logger,
		now:            time.Now,
	}
}

// ContentChanged announces a write to an admin collection.
func (n *Notifier) ContentChanged(ctx context.Context, entity, action, id string) {
	if n == nil || n.pub == nil {
		return
	}
	n.publish(ctx, n.contentChannel, types.Event{Entity: entity, Action: action, ID: id, At: n.now().UTC()})
}

// ContactReceived announces a new contact form submission.
func (n *Notifier) ContactReceived(ctx context.Context, id string) {
	if n == nil || n.pub == nil {
		return
	}
	n.publish(ctx, n.contactChannel, types.Event{Entity: "contact", Action: ActionReceived, ID: id, At: n.now().UTC()})
}

// publish is best-effort; failures are logged and never returned.
func (n *Notifier) publish(ctx context.Context, channel string, event types.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("encode event", "error", err)
		return
	}
	attrs := map[string]string{
		"content-type": "application/json",
		"entity":       event.Entity,
		"action":       event.Action,
	}
	if _, err := n.pub.Publish(ctx, channel, data, attrs); err != nil {
		n.logger.Warn("publish event failed", "channel", channel, "entity", event.Entity, "action", event.Action, "error", err)
	}
}
