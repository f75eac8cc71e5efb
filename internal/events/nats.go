package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"communityBack/internal/errors"
	"communityBack/internal/models"
)

const connectTimeout = 10 * time.Second

type NATSBus struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSBus(url string, logger *zap.Logger) (*NATSBus, error) {
	opts := []nats.Option{
		nats.Name("communityBack"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}
	return &NATSBus{conn: conn, logger: logger}, nil
}

func (b *NATSBus) Publish(_ context.Context, ev models.ListingEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Internal("marshaling listing event", err)
	}

	subject := Subject(ev.Kind, ev.Action)
	if err := b.conn.Publish(subject, data); err != nil {
		return errors.Unavailable("publishing to NATS", err)
	}

	b.logger.Debug("published listing event",
		zap.String("subject", subject),
		zap.Int64("id", ev.ID))
	return nil
}

func (b *NATSBus) Subscribe(h Handler) (func() error, error) {
	sub, err := b.conn.Subscribe(AllListings, func(msg *nats.Msg) {
		ev, err := decodeEvent(msg)
		if err != nil {
			b.logger.Error("failed to decode listing event",
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}
		h(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", AllListings, err)
	}
	return sub.Unsubscribe, nil
}

func (b *NATSBus) Close() error {
	if b.conn != nil {
		b.conn.Close()
	}
	return nil
}

func decodeEvent(msg *nats.Msg) (models.ListingEvent, error) {
	var ev models.ListingEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return models.ListingEvent{}, err
	}
	if _, err := models.ParseListingKind(string(ev.Kind)); err != nil {
		return models.ListingEvent{}, err
	}
	return ev, nil
}

var _ Bus = (*NATSBus)(nil)
