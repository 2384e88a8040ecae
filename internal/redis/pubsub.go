package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelStockChanged = "hemolink:v1:stock:changed"

// StockPubSub fans out stock-changed notifications to every dashboard
// subscribed to a venue's inventory.
type StockPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewStockPubSub(rdb *redis.Client) *StockPubSub {
	return &StockPubSub{
		rdb:     rdb,
		channel: channelStockChanged,
	}
}

type stockChangedMsg struct {
	Type    string    `json:"type"`
	VenueID uuid.UUID `json:"venue_id"`
	TsUnix  int64     `json:"ts_unix"`
}

func (p *StockPubSub) PublishStockChanged(ctx context.Context, venueID uuid.UUID) error {
	msg := stockChangedMsg{
		Type:    "stock_changed",
		VenueID: venueID,
		TsUnix:  time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe runs handler for every stock-changed message until ctx ends.
func (p *StockPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, venueID uuid.UUID)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev stockChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.VenueID != uuid.Nil {
				handler(ctx, ev.VenueID)
			}
		}
	}
}
