package service

import (
	"context"
	"fmt"
	"strings"

	"ai-coursegen-be/internal/pkg/logger"
	"ai-coursegen-be/pkg/events"
	pktNats "ai-coursegen-be/pkg/nats"
)

// IEventLogService mirrors generation lifecycle events from the bus into
// the application log so operators can follow sessions without DB access.
type IEventLogService interface {
	Start()
}

type eventLogService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewEventLogService(sub *pktNats.Subscriber, log logger.ILogger) IEventLogService {
	return &eventLogService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *eventLogService) Start() {
	err := s.subscriber.Subscribe("events.generation.>", "generation-event-logger", s.handleEvent)
	if err != nil {
		s.logger.Error("EventLogService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventLogService", "Event log service started, listening to events.generation.>", nil)
}

func (s *eventLogService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subject includes the stream prefix
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	details := event.Payload()
	if details == nil {
		details = map[string]interface{}{}
	}

	switch typeCode {
	case events.EventSessionFailed:
		s.logger.Warn("EventLogService", fmt.Sprintf("Event: %s", typeCode), details)
	default:
		s.logger.Info("EventLogService", fmt.Sprintf("Event: %s", typeCode), details)
	}
	return nil
}
