// Package events fans entry changes out to the watch streams of the same
// user. It runs on an in-process watermill gochannel pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/dmitrijs2005/mymoment/internal/logging"
)

// Kinds of change.
const (
	Added   = "added"
	Updated = "updated"
	Deleted = "deleted"
)

// Change says that one entry of UserID changed.
type Change struct {
	UserID  string `json:"user_id"`
	EntryID string `json:"entry_id"`
	Kind    string `json:"kind"`
}

// Topic is the per-user topic name.
func Topic(userID string) string {
	return "entries." + userID
}

type Bus struct {
	pubsub *gochannel.GoChannel
	logger logging.Logger
}

func NewBus(logger logging.Logger) *Bus {
	logger = logger.With("module", "events")
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, newWatermillLogger(logger)),
		logger: logger,
	}
}

func (b *Bus) Publish(ctx context.Context, c Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(Topic(c.UserID), msg); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Subscribe delivers the changes of userID until ctx is done, then closes
// the channel. Messages are acked as soon as they are decoded.
func (b *Bus) Subscribe(ctx context.Context, userID string) (<-chan Change, error) {
	messages, err := b.pubsub.Subscribe(ctx, Topic(userID))
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		for msg := range messages {
			var c Change
			err := json.Unmarshal(msg.Payload, &c)
			msg.Ack()
			if err != nil {
				b.logger.Warn(ctx, "dropping undecodable change", "error", err)
				continue
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
