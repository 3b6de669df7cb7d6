package service

import (
	"context"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/mailer"
	"portfolio-be/pkg/events"
	pktNats "portfolio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	forwarder    pktNats.IPublisher
	logger       logger.ILogger
}

// NewConsumerService handles briefing events. emailService and forwarder are
// optional.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	forwarder pktNats.IPublisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		emailService: emailService,
		forwarder:    forwarder,
		logger:       logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: notification and forwarding are best effort
// and a redelivery loop would only repeat the failure.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := events.DecodeBriefingSubmitted(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to decode briefing event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if cs.emailService != nil {
		if err := cs.emailService.SendBriefingNotification(event.Briefing); err != nil {
			cs.logger.Error("CONSUMER", "Briefing notification failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Error("CONSUMER", "Briefing forward to NATS failed", map[string]interface{}{"error": err.Error()})
		}
	}

	cs.logger.Info("CONSUMER", "Briefing event processed", map[string]interface{}{
		"message_id":   msg.UUID,
		"project_name": event.Briefing.ProjectName,
	})
}
