package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker/v2"
)

// conn is the subset of *nats.Conn used for publishing.
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATSPublisher sends events to a single subject through a circuit breaker so
// an unreachable broker does not add latency to every request.
type NATSPublisher struct {
	conn    conn
	subject string
	breaker *gobreaker.CircuitBreaker[struct{}]
	log     *slog.Logger
}

// BreakerSettings tunes the publish circuit breaker.
type BreakerSettings struct {
	MaxConsecutiveFailures uint32
	OpenTimeout            time.Duration
}

func (b BreakerSettings) normalize() BreakerSettings {
	if b.MaxConsecutiveFailures == 0 {
		b.MaxConsecutiveFailures = 5
	}
	if b.OpenTimeout <= 0 {
		b.OpenTimeout = 30 * time.Second
	}
	return b
}

// NewNATS connects to url and returns a publisher for subject.
func NewNATS(url, subject string, log *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("hrdocs"),
		nats.Timeout(2*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(60),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats_disconnected", "component", "events", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats_reconnected", "component", "events", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	log.Info("nats_connected", "component", "events", "subject", subject)
	return newNATSPublisher(nc, subject, BreakerSettings{}, log), nil
}

func newNATSPublisher(c conn, subject string, bs BreakerSettings, log *slog.Logger) *NATSPublisher {
	bs = bs.normalize()
	p := &NATSPublisher{conn: c, subject: subject, log: log}
	p.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "nats.publish",
		Timeout: bs.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.MaxConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit_breaker_state_change", "component", "events", "operation", name, "from", from.String(), "to", to.String())
		},
	})
	return p
}

// Publish encodes ev as JSON and sends it. It fails fast with
// gobreaker.ErrOpenState while the breaker is open.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.conn.Publish(p.subject, body)
	})
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", ev.Kind, err)
	}
	return nil
}

// Close drops the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
