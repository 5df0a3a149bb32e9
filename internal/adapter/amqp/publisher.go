// Package amqp publishes domain events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	rabbit "github.com/streadway/amqp"

	"github.com/heartmarshall/flashquiz/internal/domain"
)

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg rabbit.Publishing) error
	Close() error
}

// Publisher sends events with the event type as routing key. A nil
// *Publisher drops every event, which is how publishing is disabled.
type Publisher struct {
	mu       sync.Mutex
	conn     *rabbit.Connection
	ch       channel
	exchange string
	log      *slog.Logger
}

// NewPublisher dials url and declares a durable topic exchange.
func NewPublisher(log *slog.Logger, url, exchange string) (*Publisher, error) {
	conn, err := rabbit.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		log:      log.With("adapter", "amqp"),
	}, nil
}

type envelope struct {
	Type    string  `json:"type"`
	Payload payload `json:"payload"`
}

type payload struct {
	SessionID         *uuid.UUID `json:"session_id,omitempty"`
	SetID             uuid.UUID  `json:"set_id"`
	UserID            uuid.UUID  `json:"user_id"`
	CorrectAnswers    *int       `json:"correct_answers,omitempty"`
	CardCount         *int       `json:"card_count,omitempty"`
	PreviousHighScore *int       `json:"previous,omitempty"`
	HighScore         *int       `json:"high_score,omitempty"`
	OccurredAt        time.Time  `json:"occurred_at"`
}

func newMessage(e domain.Event) (rabbit.Publishing, error) {
	if !e.Type.IsValid() {
		return rabbit.Publishing{}, fmt.Errorf("unknown event type %q", e.Type)
	}

	p := payload{SetID: e.SetID, UserID: e.UserID, OccurredAt: e.OccurredAt}
	switch e.Type {
	case domain.EventQuizCompleted:
		p.SessionID = &e.SessionID
		p.CorrectAnswers = &e.CorrectAnswers
		p.CardCount = &e.CardCount
	case domain.EventHighScoreRaised:
		p.PreviousHighScore = &e.PreviousHighScore
		p.HighScore = &e.HighScore
	}

	body, err := json.Marshal(envelope{Type: e.Type.String(), Payload: p})
	if err != nil {
		return rabbit.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return rabbit.Publishing{
		ContentType:  "application/json",
		DeliveryMode: rabbit.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    e.OccurredAt,
		Type:         e.Type.String(),
		Body:         body,
	}, nil
}

// Publish sends e to the exchange. The channel is not safe for concurrent
// publishes, so sends are serialized.
func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := newMessage(e)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Publish(p.exchange, e.Type.String(), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	p.log.DebugContext(ctx, "event published",
		slog.String("type", e.Type.String()),
		slog.String("message_id", msg.MessageId),
	)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ErrClosed is returned by Ping once the broker connection is gone.
var ErrClosed = errors.New("amqp connection closed")

// Ping reports whether the broker connection is still open.
func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return ErrClosed
	}
	return nil
}
