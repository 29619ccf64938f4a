package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-coursegen-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	generationService IGenerationService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	generationService IGenerationService,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		generationService: generationService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessSessionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing generation session %s", payload.SessionId)

	stats, err := cs.generationService.Process(ctx, payload.SessionId)
	if err != nil {
		// Process already persisted the failure on the session, so a
		// retry would only re-fail against the same state.
		log.Printf("[ERROR] Session %s failed: %v", payload.SessionId, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Session %s done: %d items, quality %.2f", payload.SessionId, stats.ItemsGenerated, stats.QualityScore)
	msg.Ack()
}
