package feed

import "sync"

// Subscription is a scoped handle on the price feed, filtered to a
// ticker set. It is acquired when a contest view goes live and released
// deterministically with Close; there is no ambient global state.
type Subscription struct {
	listener *Listener
	tickers  map[string]struct{}
	ch       chan PriceUpdate

	closeOnce sync.Once
}

// Updates returns the event channel. It is closed by Close.
func (s *Subscription) Updates() <-chan PriceUpdate {
	return s.ch
}

// tracks reports whether the subscription covers a ticker.
func (s *Subscription) tracks(ticker string) bool {
	_, ok := s.tickers[ticker]
	return ok
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.listener.unsubscribe(s)
		close(s.ch)
	})
}
