package events

import (
	"context"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// RabbitPublisher sends events to the durable events queue as persistent
// JSON messages, using the event type as the AMQP message type.
type RabbitPublisher struct {
	pub *helpers.RabbitPublisher
}

func NewRabbitPublisher(pub *helpers.RabbitPublisher) *RabbitPublisher {
	return &RabbitPublisher{pub: pub}
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev AccountEvent) error {
	return p.pub.PublishJSON(ctx, string(ev.Type), ev)
}

var _ Publisher = (*RabbitPublisher)(nil)
