package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pardee-foods/clockin/ports"
)

const (
	// LoginTopic carries successful authentication events
	LoginTopic = "clockin.login"

	// SecurityTopic carries failed verifications treated as security events
	SecurityTopic = "clockin.security"
)

// LoginEvent represents a successful authentication
type LoginEvent struct {
	UserID string    `json:"user_id"`
	Method string    `json:"method"`
	At     time.Time `json:"at"`
}

// SecurityEvent represents a failed verification worth alerting on
type SecurityEvent struct {
	UserID string    `json:"user_id"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a successful authentication event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, userID, method string) error {
	return p.publish(LoginTopic, LoginEvent{
		UserID: userID,
		Method: method,
		At:     time.Now().UTC(),
	})
}

// PublishSecurityEvent publishes a failed verification event
func (p *WatermillPublisher) PublishSecurityEvent(ctx context.Context, userID, reason string) error {
	return p.publish(SecurityTopic, SecurityEvent{
		UserID: userID,
		Reason: reason,
		At:     time.Now().UTC(),
	})
}

func (p *WatermillPublisher) publish(topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
