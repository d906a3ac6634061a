// Package amqp publishes and consumes data-changed notifications over
// RabbitMQ. Publishing is fire-and-forget from the caller's perspective:
// a broker outage degrades cache freshness, never request correctness.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateHalfOpen
	StateOpen
)

const (
	// maxFailures opens the circuit after this many consecutive publish
	// failures, so a dead broker stops costing a timeout per request.
	maxFailures = 5

	// openTimeout is how long the circuit stays open before a probe.
	openTimeout = 30 * time.Second

	publishTimeout = 5 * time.Second
)

type Client struct {
	url          string
	exchangeName string
	queueName    string

	conn    *amqp091.Connection
	channel *amqp091.Channel

	failureCount    int64
	state           int32
	lastFailureNano int64
}

// NewClient dials the broker and declares the exchange, queue and binding.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		conn:         conn,
		channel:      channel,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishDataChanged publishes a data-changed notification. When the circuit
// is open the publish is skipped with an error so callers can log and move on.
func (c *Client) PublishDataChanged(ctx context.Context, msg *DataChangedMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish data changed: circuit breaker is open")
	}

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	slog.InfoContext(ctx, "Published data changed message",
		"owner_id", msg.OwnerID,
		"account_id", msg.AccountID,
		"reason", msg.Reason,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// ConsumeDataChanged delivers each data-changed message to handler until the
// context is canceled. Handler errors requeue the message; malformed bodies
// are dropped.
func (c *Client) ConsumeDataChanged(ctx context.Context, handler func(*DataChangedMessage) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming data changed messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := DataChangedMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err,
					"owner_id", msg.OwnerID,
					"reason", msg.Reason)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
		}
	}
}

// isCircuitOpen reports whether publishes are currently short-circuited,
// transitioning open -> half-open once openTimeout has passed.
func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		lastFailure := time.Unix(0, atomic.LoadInt64(&c.lastFailureNano))
		if time.Since(lastFailure) > openTimeout {
			atomic.StoreInt32(&c.state, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	atomic.StoreInt64(&c.lastFailureNano, time.Now().UnixNano())
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
		slog.Warn("AMQP circuit breaker opened",
			"failures", atomic.LoadInt64(&c.failureCount),
			"retry_after", openTimeout)
	}
}

// exponentialBackoff returns the reconnect delay for the given attempt,
// capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second * time.Duration(1<<uint(attempt))
	if d > 30*time.Second {
		return 30 * time.Second
	}
	return d
}

// isConnectionError reports whether err looks like a broken broker
// connection, which warrants a reconnect rather than a retry on the same
// channel.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"connection refused",
		"connection closed",
		"EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Reconnect redials the broker with exponential backoff until the context
// is canceled, then redeclares the topology.
func (c *Client) Reconnect(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}

		conn, err := amqp091.Dial(c.url)
		if err != nil {
			slog.Warn("AMQP reconnect failed", "attempt", attempt, "error", err)
			continue
		}
		channel, err := conn.Channel()
		if err != nil {
			conn.Close()
			slog.Warn("AMQP channel reopen failed", "attempt", attempt, "error", err)
			continue
		}

		c.conn = conn
		c.channel = channel
		if err := c.setup(); err != nil {
			c.Close()
			slog.Warn("AMQP topology setup failed after reconnect", "attempt", attempt, "error", err)
			continue
		}

		c.recordSuccess()
		slog.Info("AMQP reconnected", "attempt", attempt)
		return nil
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
