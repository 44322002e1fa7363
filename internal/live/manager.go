package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pickarena/backend/internal/contest"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

// Manager opens and caches live sessions, one per contest being
// viewed. Sessions are shared across viewers of the same contest and
// released when the last viewer leaves.
type Manager struct {
	contests    ContestStore
	picks       PickStore
	contestants ContestantStore
	prices      PriceStore
	feed        Feed
	logger      *logger.Logger
	metrics     *metrics.Manager

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

type session struct {
	*Session
	hub *Hub
}

// NewManager creates a session manager.
func NewManager(
	contests ContestStore,
	picks PickStore,
	contestants ContestantStore,
	prices PriceStore,
	priceFeed Feed,
	log *logger.Logger,
	m *metrics.Manager,
) *Manager {
	return &Manager{
		contests:    contests,
		picks:       picks,
		contestants: contestants,
		prices:      prices,
		feed:        priceFeed,
		logger:      log,
		metrics:     m,
		sessions:    make(map[uuid.UUID]*session),
	}
}

// Open loads a session for a contest, reusing a cached one when a
// viewer is already watching it.
func (m *Manager) Open(ctx context.Context, contestID uuid.UUID) (*Session, *Hub, error) {
	m.mu.Lock()
	if s, ok := m.sessions[contestID]; ok {
		m.mu.Unlock()
		return s.Session, s.hub, nil
	}
	m.mu.Unlock()

	s, err := m.load(ctx, contestID)
	if err != nil {
		return nil, nil, err
	}

	hub := NewHub(m.logger)
	hub.OnEmpty(func() { m.release(contestID) })
	s.OnUpdate(func(board []contest.Entry) { hub.Broadcast(board) })

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[contestID]; ok {
		// Another viewer opened the same contest concurrently
		s.Close()
		hub.Shutdown()
		return existing.Session, existing.hub, nil
	}
	m.sessions[contestID] = &session{Session: s, hub: hub}
	return s, hub, nil
}

// load performs the initial synchronous load: picks, contestant
// profiles, then current prices.
func (m *Manager) load(ctx context.Context, contestID uuid.UUID) (*Session, error) {
	c, err := m.contests.GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}

	picks, err := m.picks.ListByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(picks))
	for _, p := range picks {
		userIDs = append(userIDs, p.UserID)
	}

	contestants, err := m.contestants.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load contestants: %w", err)
	}

	// A failed price fetch degrades to buy prices, not to an error
	prices, err := m.prices.GetPrices(ctx, uniqueTickers(picks))
	if err != nil {
		m.logger.WithError(err).WithField("contest_id", contestID).
			Warn("Price fetch failed, valuing at buy prices")
		prices = map[string]float64{}
	}

	return newSession(ctx, c, picks, contestants, prices, m.feed, m.logger, m.metrics), nil
}

// release tears down a contest's session once its last viewer is gone.
func (m *Manager) release(contestID uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[contestID]
	delete(m.sessions, contestID)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Shutdown closes every open session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[uuid.UUID]*session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.hub.Shutdown()
		s.Close()
	}
}
