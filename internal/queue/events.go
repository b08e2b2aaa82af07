package queue

import (
	"context"
	"time"

	"github.com/wonny/finhealth/pkg/redis"
)

// EventsChannel is the Redis channel carrying worker events to API processes
const EventsChannel = "finhealth:events"

// EventAssessmentCompleted is published after an assessment is stored
const EventAssessmentCompleted = "assessment.completed"

// Event is a worker notification pushed to websocket clients
type Event struct {
	Type             string    `json:"type"`
	CorrelationID    string    `json:"correlation_id"`
	BusinessID       int64     `json:"business_id"`
	FiscalYear       int       `json:"fiscal_year"`
	AssessmentID     int64     `json:"assessment_id"`
	CreditScore      float64   `json:"credit_score"`
	CreditRating     string    `json:"credit_rating"`
	CommentaryStatus string    `json:"commentary_status"`
	At               time.Time `json:"at"`
}

// Publisher delivers events to interested listeners
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher fans events out over Redis pub/sub
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher on EventsChannel
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish sends the event; a disabled Redis client drops it
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	return p.client.Publish(ctx, EventsChannel, e)
}

// MultiPublisher publishes to every publisher, returning the first error
type MultiPublisher []Publisher

// Publish implements Publisher
func (m MultiPublisher) Publish(ctx context.Context, e Event) error {
	var first error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
