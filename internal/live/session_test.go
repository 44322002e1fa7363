package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickarena/backend/internal/contest"
	"github.com/pickarena/backend/internal/feed"
	"github.com/pickarena/backend/pkg/config"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

var (
	contestID = uuid.MustParse("10000000-0000-0000-0000-000000000001")
	userOne   = uuid.MustParse("20000000-0000-0000-0000-000000000001")
	userTwo   = uuid.MustParse("20000000-0000-0000-0000-000000000002")
)

type fakeStore struct {
	contest     *contest.Contest
	contestErr  error
	picks       []contest.Pick
	contestants map[uuid.UUID]contest.Contestant
	prices      map[string]float64
	pricesErr   error
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*contest.Contest, error) {
	return f.contest, f.contestErr
}

func (f *fakeStore) ListByContest(ctx context.Context, id uuid.UUID) ([]contest.Pick, error) {
	return f.picks, nil
}

func (f *fakeStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]contest.Contestant, error) {
	return f.contestants, nil
}

func (f *fakeStore) GetPrices(ctx context.Context, tickers []string) (map[string]float64, error) {
	return f.prices, f.pricesErr
}

func activeContest() *contest.Contest {
	return &contest.Contest{
		ID:        contestID,
		Name:      "Q1 Showdown",
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now().Add(time.Hour),
	}
}

func endedContest() *contest.Contest {
	c := activeContest()
	c.StartTime = time.Now().Add(-48 * time.Hour)
	c.EndTime = time.Now().Add(-24 * time.Hour)
	return c
}

func testDeps(f *fakeStore) (*Manager, *feed.Listener) {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	m := metrics.New(false)
	listener := feed.NewListener(nil, log, m)
	return NewManager(f, f, f, f, listener, log, m), listener
}

func defaultFakes() *fakeStore {
	return &fakeStore{
		contest: activeContest(),
		picks: []contest.Pick{
			{ContestID: contestID, UserID: userOne, Ticker: "AAPL", Quantity: 4, BuyPrice: 250},
			{ContestID: contestID, UserID: userTwo, Ticker: "MSFT", Quantity: 2, BuyPrice: 500},
		},
		contestants: map[uuid.UUID]contest.Contestant{
			userOne: {ID: userOne, Username: "alpha"},
			userTwo: {ID: userTwo, Username: "beta"},
		},
		prices: map[string]float64{"AAPL": 255, "MSFT": 480},
	}
}

func TestOpenBuildsRankedBoard(t *testing.T) {
	mgr, _ := testDeps(defaultFakes())

	s, _, err := mgr.Open(context.Background(), contestID)
	require.NoError(t, err)
	defer mgr.Shutdown()

	board := s.Leaderboard()
	require.Len(t, board, 2)
	// 4*255=1020 beats 2*480=960
	assert.Equal(t, "alpha", board[0].UserName)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)
	assert.True(t, s.Live(), "active contest with picks should subscribe")
}

func TestOpenDegradesToBuyPricesOnPriceStoreError(t *testing.T) {
	f := defaultFakes()
	f.pricesErr = errors.New("store unavailable")
	mgr, _ := testDeps(f)

	s, _, err := mgr.Open(context.Background(), contestID)
	require.NoError(t, err)
	defer mgr.Shutdown()

	board := s.Leaderboard()
	require.Len(t, board, 2)
	for _, e := range board {
		assert.Equal(t, e.BuyPrice, e.CurrentPrice, "should value at buy price")
	}
}

func TestNoSubscriptionOutsideActiveWindow(t *testing.T) {
	f := defaultFakes()
	f.contest = endedContest()
	mgr, listener := testDeps(f)

	s, _, err := mgr.Open(context.Background(), contestID)
	require.NoError(t, err)
	defer mgr.Shutdown()

	assert.False(t, s.Live(), "ended contest must not subscribe")

	// Events for its tickers change nothing
	before := s.Leaderboard()
	listener.Publish(feed.PriceUpdate{Ticker: "AAPL", Price: 9999})
	assert.Equal(t, before, s.Leaderboard())
}

func TestNoSubscriptionWithoutParticipants(t *testing.T) {
	f := defaultFakes()
	f.picks = nil
	mgr, _ := testDeps(f)

	s, _, err := mgr.Open(context.Background(), contestID)
	require.NoError(t, err)
	defer mgr.Shutdown()

	assert.False(t, s.Live())
	assert.Equal(t, 0, s.ParticipantCount())
}

func TestFeedEventReRanksBoard(t *testing.T) {
	f := defaultFakes()
	mgr, listener := testDeps(f)

	s, _, err := mgr.Open(context.Background(), contestID)
	require.NoError(t, err)
	defer mgr.Shutdown()

	var got []contest.Entry
	updates := make(chan []contest.Entry, 8)
	s.OnUpdate(func(board []contest.Entry) { updates <- board })

	// MSFT jumps: 2*600=1200 overtakes 4*255=1020
	listener.Publish(feed.PriceUpdate{Ticker: "MSFT", Price: 600})

	require.Eventually(t, func() bool {
		select {
		case got = <-updates:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	require.Len(t, got, 2)
	assert.Equal(t, "beta", got[0].UserName)
	assert.Equal(t, 1200.0, got[0].CurrentValue)
	assert.Equal(t, 1, got[0].Rank)

	// Session state matches the broadcast board
	assert.Equal(t, got, s.Leaderboard())
}

func TestOpenReusesSessionPerContest(t *testing.T) {
	mgr, _ := testDeps(defaultFakes())

	first, _, err := mgr.Open(context.Background(), contestID)
	require.NoError(t, err)
	second, _, err := mgr.Open(context.Background(), contestID)
	require.NoError(t, err)
	defer mgr.Shutdown()

	assert.Same(t, first, second)
}
