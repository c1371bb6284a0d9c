package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/utafrali/authcore/internal/domain"
	pkgkafka "github.com/utafrali/authcore/pkg/kafka"
	"github.com/utafrali/authcore/pkg/logger"
)

// Event types, appended to the configured topic prefix to form topic names.
const (
	TypeUserCreated = "user.created"
	TypeUserUpdated = "user.updated"
)

const (
	AggregateTypeUser = "user"
	SourceUserService = "authcore"
)

// UserCreatedData is the payload for a user.created event.
type UserCreatedData struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"creation_date"`
	ProfileID *int64    `json:"profile_id,omitempty"`
	StatusID  *int64    `json:"status_id,omitempty"`
}

// UserUpdatedData is the payload for a user.updated event. Fields names the
// changed columns; the password digest is never included.
type UserUpdatedData struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	ProfileID *int64   `json:"profile_id,omitempty"`
	StatusID  *int64   `json:"status_id,omitempty"`
	Fields    []string `json:"fields"`
}

// Publisher is satisfied by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes user events. With a nil Publisher every call is a
// no-op, which is how the service runs without KAFKA_BROKERS.
type Producer struct {
	kafka       Publisher
	topicPrefix string
	logger      *slog.Logger
}

func NewProducer(kafka Publisher, topicPrefix string, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, topicPrefix: topicPrefix, logger: logger}
}

// Topic returns the full topic name for an event type.
func (p *Producer) Topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

func (p *Producer) PublishUserCreated(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TypeUserCreated, user.ID, UserCreatedData{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		ProfileID: user.ProfileID,
		StatusID:  user.StatusID,
	})
}

func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User, fields []string) error {
	return p.publish(ctx, TypeUserUpdated, user.ID, UserUpdatedData{
		ID:        user.ID,
		Email:     user.Email,
		ProfileID: user.ProfileID,
		StatusID:  user.StatusID,
		Fields:    fields,
	})
}

func (p *Producer) publish(ctx context.Context, eventType string, userID int64, data any) error {
	if p.kafka == nil {
		return nil
	}

	evt, err := pkgkafka.NewEvent(eventType, strconv.FormatInt(userID, 10), AggregateTypeUser, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, p.Topic(eventType), evt); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "user event published",
		slog.String("event_type", eventType),
		slog.Int64("user_id", userID),
	)
	return nil
}
