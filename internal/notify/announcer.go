package notify

import (
	"context"
	"time"

	"toheoje/internal/dataset"
	"toheoje/internal/log"
)

// Publisher sends a message body under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Announcer publishes one NewRecordsMessage per successful load. Failures are
// logged and never reach the dataset.
type Announcer struct {
	pub        Publisher
	routingKey string
	logger     *log.Logger
	now        func() time.Time
}

func NewAnnouncer(pub Publisher, routingKey string, logger *log.Logger) *Announcer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Announcer{
		pub:        pub,
		routingKey: routingKey,
		logger:     logger.WithComponent(log.ComponentAMQP),
		now:        time.Now,
	}
}

// Hook returns the dataset hook that announces the batch.
func (a *Announcer) Hook() dataset.Hook {
	return func(ctx context.Context, snap dataset.Snapshot) {
		a.Announce(ctx, snap)
	}
}

// Announce publishes the batch of snap and reports whether a message was sent.
func (a *Announcer) Announce(ctx context.Context, snap dataset.Snapshot) bool {
	msg, ok := BuildMessage(snap.Records, snap.Fingerprint, a.now())
	if !ok {
		a.logger.DebugContext(ctx, "No new records to announce")
		return false
	}
	body, err := msg.ToJSON()
	if err != nil {
		a.logger.LogError(ctx, "Encode new records message failed", err, log.OpPublish, nil)
		return false
	}
	if err := a.pub.Publish(ctx, a.routingKey, body); err != nil {
		a.logger.LogError(ctx, "Publish new records message failed", err, log.OpPublish,
			log.NewFields().WithDataset(snap.Source, len(snap.Records), snap.Fingerprint))
		return false
	}
	a.logger.InfoContext(ctx, "Announced new records",
		log.FieldCollected, msg.CollectedDate,
		log.FieldNewRecords, msg.Count,
		"routing_key", a.routingKey)
	return true
}
