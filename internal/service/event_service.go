package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	EventBalanceChanged        = "balance_changed"
	EventExchangeStatusChanged = "exchange_status_changed"
)

type AccountEvent struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id"`
	Balance    int    `json:"balance,omitempty"`
	Reason     string `json:"reason,omitempty"`
	ExchangeID string `json:"exchange_id,omitempty"`
	Status     string `json:"status,omitempty"`
}

// EventService publishes narrow change events consumers can subscribe to
// individually. It is not required for correctness: without redis every
// publish is a no-op.
type EventService interface {
	PublishBalanceChanged(ctx context.Context, userID uuid.UUID, balance int, reason string)
	PublishExchangeStatusChanged(ctx context.Context, userID, exchangeID uuid.UUID, status string)
}

type eventService struct {
	redisClient *redis.Client
}

func NewEventService(redisClient *redis.Client) EventService {
	return &eventService{redisClient: redisClient}
}

func AccountEventChannel(userID string) string {
	return fmt.Sprintf("account_events:%s", userID)
}

func (s *eventService) PublishBalanceChanged(ctx context.Context, userID uuid.UUID, balance int, reason string) {
	s.publish(ctx, userID, AccountEvent{
		Type:    EventBalanceChanged,
		UserID:  userID.String(),
		Balance: balance,
		Reason:  reason,
	})
}

func (s *eventService) PublishExchangeStatusChanged(ctx context.Context, userID, exchangeID uuid.UUID, status string) {
	s.publish(ctx, userID, AccountEvent{
		Type:       EventExchangeStatusChanged,
		UserID:     userID.String(),
		ExchangeID: exchangeID.String(),
		Status:     status,
	})
}

func (s *eventService) publish(ctx context.Context, userID uuid.UUID, event AccountEvent) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.redisClient.Publish(ctx, AccountEventChannel(userID.String()), payload)
}
