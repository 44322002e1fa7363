// Package feed delivers price change events from the store to live
// leaderboard sessions. The tickers table has a trigger that emits a
// pg_notify on every price upsert; one listener connection fans the
// notifications out to scoped subscriptions.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

// channelName is the Postgres notification channel the tickers trigger
// publishes on.
const channelName = "ticker_updates"

// subscriptionBuffer bounds the per-subscription event queue. A slow
// consumer drops events; the next full valuation pass heals the view.
const subscriptionBuffer = 64

// PriceUpdate is one price change event from the store.
type PriceUpdate struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

// Listener holds a dedicated connection, LISTENs on the ticker
// channel and dispatches decoded events to subscriptions.
type Listener struct {
	pool    *pgxpool.Pool
	logger  *logger.Logger
	metrics *metrics.Manager

	mu   sync.RWMutex
	subs map[*Subscription]struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewListener creates a new feed listener.
func NewListener(pool *pgxpool.Pool, log *logger.Logger, m *metrics.Manager) *Listener {
	return &Listener{
		pool:    pool,
		logger:  log,
		metrics: m,
		subs:    make(map[*Subscription]struct{}),
	}
}

// Start acquires a dedicated connection, issues LISTEN and begins the
// read loop. The loop runs until Stop is called.
func (l *Listener) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	conn, err := l.pool.Acquire(runCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(runCtx, "LISTEN "+channelName); err != nil {
		conn.Release()
		cancel()
		return fmt.Errorf("listen on %s: %w", channelName, err)
	}

	l.wg.Add(1)
	go l.run(runCtx, conn)

	l.logger.WithField("channel", channelName).Info("Price feed listener started")
	return nil
}

// run is the read loop: wait for a notification, decode, dispatch.
// Events are handled one at a time, to completion, in arrival order.
func (l *Listener) run(ctx context.Context, conn *pgxpool.Conn) {
	defer l.wg.Done()
	defer conn.Release()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.WithError(err).Error("Price feed wait failed")
			return
		}

		var update PriceUpdate
		if err := json.Unmarshal([]byte(notification.Payload), &update); err != nil {
			l.logger.WithError(err).WithField("payload", notification.Payload).
				Warn("Dropping malformed price notification")
			continue
		}

		l.dispatch(update)
	}
}

// dispatch routes an update to every subscription tracking its ticker.
func (l *Listener) dispatch(update PriceUpdate) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for sub := range l.subs {
		if !sub.tracks(update.Ticker) {
			continue
		}
		select {
		case sub.ch <- update:
		default:
			l.logger.WithField("ticker", update.Ticker).
				Warn("Subscription queue full, dropping price update")
		}
	}
}

// Publish injects an update into the dispatch path directly, bypassing
// the database channel. Used by tests and local tooling.
func (l *Listener) Publish(update PriceUpdate) {
	l.dispatch(update)
}

// Stop terminates the read loop and closes every open subscription.
func (l *Listener) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()

	l.mu.Lock()
	subs := make([]*Subscription, 0, len(l.subs))
	for sub := range l.subs {
		subs = append(subs, sub)
	}
	l.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}

	l.logger.Info("Price feed listener stopped")
}

// Subscribe registers interest in a set of tickers. The caller owns the
// returned subscription and must Close it when the view is torn down or
// the ticker set empties.
func (l *Listener) Subscribe(tickers []string) *Subscription {
	set := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		set[t] = struct{}{}
	}

	sub := &Subscription{
		listener: l,
		tickers:  set,
		ch:       make(chan PriceUpdate, subscriptionBuffer),
	}

	l.mu.Lock()
	l.subs[sub] = struct{}{}
	l.mu.Unlock()

	l.metrics.SubscriberAdded()
	return sub
}

// unsubscribe removes a subscription from the dispatch set.
func (l *Listener) unsubscribe(sub *Subscription) {
	l.mu.Lock()
	_, present := l.subs[sub]
	delete(l.subs, sub)
	l.mu.Unlock()

	if present {
		l.metrics.SubscriberRemoved()
	}
}
