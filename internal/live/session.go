// Package live keeps one contest's leaderboard current while it is
// being viewed: an initial load from the store, then price change
// events from the feed applied one at a time.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pickarena/backend/internal/contest"
	"github.com/pickarena/backend/internal/feed"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

// Store interfaces the session loads through. Implemented by the
// repositories in internal/store; fakes in tests.
type (
	ContestStore interface {
		GetByID(ctx context.Context, id uuid.UUID) (*contest.Contest, error)
	}
	PickStore interface {
		ListByContest(ctx context.Context, contestID uuid.UUID) ([]contest.Pick, error)
	}
	ContestantStore interface {
		GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]contest.Contestant, error)
	}
	PriceStore interface {
		GetPrices(ctx context.Context, tickers []string) (map[string]float64, error)
	}
	Feed interface {
		Subscribe(tickers []string) *feed.Subscription
	}
)

// Session is one contest's live leaderboard view. All event handling is
// serial: each price update is applied to completion before the next.
type Session struct {
	contest *contest.Contest
	logger  *logger.Logger
	metrics *metrics.Manager

	mu    sync.RWMutex
	board []contest.Entry

	sub      *feed.Subscription
	onUpdate func([]contest.Entry)

	closeOnce sync.Once
	done      chan struct{}
}

// newSession builds a loaded session and, when the contest is active
// and has tracked tickers, attaches it to the feed. Outside that window
// no subscription is established and price events are ignored.
func newSession(
	ctx context.Context,
	c *contest.Contest,
	picks []contest.Pick,
	contestants map[uuid.UUID]contest.Contestant,
	prices map[string]float64,
	priceFeed Feed,
	log *logger.Logger,
	m *metrics.Manager,
) *Session {
	board := contest.BuildLeaderboard(picks, contestants, prices)
	m.LeaderboardRebuilt()

	s := &Session{
		contest: c,
		logger:  log.WithField("contest_id", c.ID),
		metrics: m,
		board:   board,
		done:    make(chan struct{}),
	}

	tickers := uniqueTickers(picks)
	if c.StatusAt(time.Now()) == contest.StatusActive && len(tickers) > 0 && len(board) > 0 {
		s.sub = priceFeed.Subscribe(tickers)
		go s.run()
		s.logger.WithField("tickers", tickers).Info("Live session subscribed to price feed")
	}

	m.SessionOpened()
	return s
}

// run consumes feed events until the subscription closes.
func (s *Session) run() {
	for update := range s.sub.Updates() {
		s.apply(update)
	}
	close(s.done)
}

// apply folds one price event into the board and notifies the update
// callback with the re-ranked result.
func (s *Session) apply(update feed.PriceUpdate) {
	s.mu.Lock()
	if len(s.board) == 0 {
		s.mu.Unlock()
		return
	}
	s.board = contest.ApplyPriceUpdate(s.board, update.Ticker, update.Price)
	board := snapshot(s.board)
	notify := s.onUpdate
	s.mu.Unlock()

	s.metrics.PriceUpdateApplied()

	if notify != nil {
		notify(board)
	}
}

// OnUpdate sets the callback invoked with each re-ranked board.
func (s *Session) OnUpdate(fn func([]contest.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Contest returns the contest this session views.
func (s *Session) Contest() *contest.Contest {
	return s.contest
}

// Leaderboard returns a copy of the current ranked board.
func (s *Session) Leaderboard() []contest.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.board)
}

// ParticipantCount returns the number of entries on the board.
func (s *Session) ParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.board)
}

// Live reports whether the session holds a feed subscription.
func (s *Session) Live() bool {
	return s.sub != nil
}

// Close releases the feed subscription. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.sub != nil {
			s.sub.Close()
			<-s.done
		}
		s.metrics.SessionClosed()
		s.logger.Debug("Live session closed")
	})
}

func uniqueTickers(picks []contest.Pick) []string {
	seen := make(map[string]struct{}, len(picks))
	tickers := make([]string, 0, len(picks))
	for _, p := range picks {
		if _, ok := seen[p.Ticker]; ok {
			continue
		}
		seen[p.Ticker] = struct{}{}
		tickers = append(tickers, p.Ticker)
	}
	return tickers
}

func snapshot(board []contest.Entry) []contest.Entry {
	out := make([]contest.Entry, len(board))
	copy(out, board)
	return out
}
