// Package worker bridges database change notifications into the in-process
// event broker. The storage layer emits a pg_notify in the same transaction
// as every order write; the listener is the other end of that channel.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/lifecycle"
	"github.com/hunabku/comanda/internal/storage/postgres"
	"github.com/hunabku/comanda/internal/stream"
)

// notifyConn is the subset of a pgx connection the listener needs.
type notifyConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type connector func(ctx context.Context) (notifyConn, error)

// ChangeListener holds a dedicated LISTEN connection and republishes every
// order event to the broker. The connection is separate from the pool; a
// pooled connection may be recycled mid-LISTEN.
type ChangeListener struct {
	dsn        string
	broker     *stream.Broker
	retryDelay time.Duration
	logger     *slog.Logger
	connect    connector

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex

	attached bool // run goroutine only
}

// NewChangeListener constructs the listener.
func NewChangeListener(dsn string, broker *stream.Broker, retryDelay time.Duration, logger *slog.Logger) *ChangeListener {
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &ChangeListener{
		dsn:        dsn,
		broker:     broker,
		retryDelay: retryDelay,
		logger:     logger,
		connect: func(ctx context.Context) (notifyConn, error) {
			return pgx.Connect(ctx, dsn)
		},
	}
}

// Start launches the listening loop in the background.
func (l *ChangeListener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.wg.Add(1)
	go l.run(runCtx)
}

// Stop terminates the loop and waits for it to exit.
func (l *ChangeListener) Stop() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	l.wg.Wait()
}

func (l *ChangeListener) run(ctx context.Context) {
	defer l.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := l.connect(ctx)
		if err != nil {
			l.logger.Error("listen connection failed", slog.String("error", err.Error()))
			if !l.pause(ctx) {
				return
			}
			continue
		}

		l.listen(ctx, conn)
		_ = conn.Close(context.Background())

		if !l.pause(ctx) {
			return
		}
	}
}

// listen consumes notifications until the connection breaks or ctx ends.
func (l *ChangeListener) listen(ctx context.Context, conn notifyConn) {
	if _, err := conn.Exec(ctx, "LISTEN "+postgres.NotifyChannel); err != nil {
		l.logger.Error("listen command failed", slog.String("error", err.Error()))
		return
	}
	l.logger.Info("order change listener attached", slog.String("channel", postgres.NotifyChannel))

	if l.attached {
		// Notifications raised while the connection was down are gone.
		// Tell every subscriber to re-fetch instead of waiting for the
		// next write, which for a finished order would never come.
		l.broker.Broadcast(model.OrderEvent{Resync: true})
	}
	l.attached = true

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Error("notification wait failed", slog.String("error", err.Error()))
			}
			return
		}
		l.handle(notification.Payload)
	}
}

func (l *ChangeListener) handle(payload string) {
	event, err := decodePayload(payload)
	if err != nil {
		l.logger.Error("undecodable order event", slog.String("error", err.Error()))
		return
	}

	status, ok := lifecycle.Normalize(string(event.Status))
	if !ok {
		l.logger.Warn("unrecognized status in notification",
			slog.String("order", event.OrderID),
			slog.String("status", string(event.Status)),
		)
	}
	event.Status = status

	l.broker.Publish(event)
}

// pause sleeps the retry delay; false means ctx ended.
func (l *ChangeListener) pause(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(l.retryDelay):
		return true
	}
}

func decodePayload(payload string) (model.OrderEvent, error) {
	var event model.OrderEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return model.OrderEvent{}, err
	}
	return event, nil
}
