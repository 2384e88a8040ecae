package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/streadway/amqp"
)

type Config struct {
	URL        string
	Exchange   string
	RetryCount int
	RetryDelay time.Duration
}

// Notifier publishes donation and stock-alert events to a topic exchange.
// Downstream consumers (mail, SMS) are outside this service; a publish
// failure is logged and never fails the user action that triggered it.
type Notifier struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

func NewNotifier(cfg Config, logger *slog.Logger) *Notifier {
	if cfg.Exchange == "" {
		cfg.Exchange = "hemolink.events"
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 5
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	return &Notifier{cfg: cfg, logger: logger}
}

// Connect dials the broker with retries and declares the exchange.
func (n *Notifier) Connect() error {
	const op = "amqp.Notifier.Connect"

	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	for i := 0; i < n.cfg.RetryCount; i++ {
		n.conn, err = amqp.Dial(n.cfg.URL)
		if err != nil {
			n.logger.Warn("amqp dial failed",
				"attempt", i+1,
				"of", n.cfg.RetryCount,
				"error", err,
			)
			if i < n.cfg.RetryCount-1 {
				time.Sleep(n.cfg.RetryDelay)
				continue
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		n.channel, err = n.conn.Channel()
		if err != nil {
			n.conn.Close()
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := n.channel.ExchangeDeclare(
			n.cfg.Exchange,
			"topic",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			n.channel.Close()
			n.conn.Close()
			return fmt.Errorf("%s:%w", op, err)
		}

		return nil
	}

	return fmt.Errorf("%s:%w", op, err)
}

func (n *Notifier) IsConnected() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.conn != nil && !n.conn.IsClosed()
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	if n.channel != nil {
		_ = n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}

	return nil
}

type donationRecordedEvent struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DonorID       uuid.UUID `json:"donor_id"`
	VenueID       uuid.UUID `json:"venue_id"`
	VenueName     string    `json:"venue_name"`
	BloodType     string    `json:"blood_type"`
	DonatedAt     time.Time `json:"donated_at"`
}

// PublishDonationRecorded emits a donation.recorded event after a completed
// appointment commits.
func (n *Notifier) PublishDonationRecorded(ctx context.Context, d *domain.Donation) error {
	return n.publish(ctx, "donation.recorded", donationRecordedEvent{
		ID:            d.ID,
		AppointmentID: d.AppointmentID,
		DonorID:       d.DonorID,
		VenueID:       d.VenueID,
		VenueName:     d.VenueName,
		BloodType:     d.BloodType.String(),
		DonatedAt:     d.DonatedAt,
	})
}

type stockAlertEvent struct {
	VenueID   uuid.UUID `json:"venue_id"`
	BloodType string    `json:"blood_type"`
	Count     int       `json:"count"`
	Level     string    `json:"level"`
	TsUnix    int64     `json:"ts_unix"`
}

// PublishStockAlert emits a stock.alert event when a blood type drops into
// the critical band.
func (n *Notifier) PublishStockAlert(ctx context.Context, venueID uuid.UUID, bt domain.BloodType, count int) error {
	return n.publish(ctx, "stock.alert", stockAlertEvent{
		VenueID:   venueID,
		BloodType: bt.String(),
		Count:     count,
		Level:     string(domain.LevelForCount(count)),
		TsUnix:    time.Now().Unix(),
	})
}

func (n *Notifier) publish(_ context.Context, routingKey string, payload any) error {
	const op = "amqp.Notifier.publish"

	if !n.IsConnected() {
		return fmt.Errorf("%s: not connected", op)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	n.mu.RLock()
	ch := n.channel
	n.mu.RUnlock()

	err = ch.Publish(
		n.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    uuid.New().String(),
			Body:         b,
		},
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
