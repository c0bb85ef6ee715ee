package orders

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/foodheaven/storefront-backend/pkg/enums"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	"github.com/foodheaven/storefront-backend/pkg/outbox"
)

// Consumer drains the orders subscription and forwards events into the
// feed hub. Malformed messages are acked and dropped; a missed event
// only delays a re-render because the admin panel re-reads order rows.
type Consumer struct {
	subscription *pubsub.Subscriber
	hub          *Hub
	logg         *logger.Logger
}

// NewConsumer constructs a consumer bound to the orders subscription.
func NewConsumer(subscription *pubsub.Subscriber, hub *Hub, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("orders subscription is required")
	}
	if hub == nil {
		return nil, errors.New("feed hub is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		hub:          hub,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the
// subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.process(ctx, msg.Attributes, msg.Data)
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, attributes map[string]string, data []byte) {
	event, err := DecodeFeedEvent(attributes, data)
	if err != nil {
		logCtx := c.logg.WithField(ctx, "attributes", attributes)
		c.logg.Warn(logCtx, "dropping undecodable orders message")
		return
	}

	c.hub.Publish(event)

	logCtx := c.logg.WithOrderID(ctx, event.OrderID.String())
	logCtx = c.logg.WithField(logCtx, "event_type", string(event.EventType))
	c.logg.Info(logCtx, "order event broadcast to feed")
}

// DecodeFeedEvent converts one Pub/Sub message into a FeedEvent using
// the attributes stamped by the outbox publisher.
func DecodeFeedEvent(attributes map[string]string, data []byte) (FeedEvent, error) {
	eventType, err := enums.ParseOutboxEventType(attributes["event_type"])
	if err != nil {
		return FeedEvent{}, err
	}
	orderID, err := uuid.Parse(attributes["aggregate_id"])
	if err != nil {
		return FeedEvent{}, err
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return FeedEvent{}, err
	}
	if len(envelope.Data) == 0 {
		return FeedEvent{}, errors.New("envelope carries no payload")
	}

	return FeedEvent{
		EventType:  eventType,
		OrderID:    orderID,
		OccurredAt: envelope.OccurredAt,
		Payload:    envelope.Data,
	}, nil
}
