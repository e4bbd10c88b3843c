package http

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// breakerTripThreshold is the number of consecutive failures that opens a host's breaker.
const breakerTripThreshold = 5

// breakerSet keeps one circuit breaker per upstream host.
type breakerSet struct {
	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

func newBreakerSet() *breakerSet {
	return &breakerSet{breakers: make(map[string]*circuit.Breaker)}
}

func (bs *breakerSet) get(host string) *circuit.Breaker {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if breaker, ok := bs.breakers[host]; ok {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker := circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(breakerTripThreshold),
	})
	bs.breakers[host] = breaker
	return breaker
}

// call runs fn once under the breaker of rawURL's host.
func (bs *breakerSet) call(rawURL string, fn func() error) error {
	host := hostOf(rawURL)
	breaker := bs.get(host)

	if !breaker.Ready() {
		return fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}
	return breaker.Call(fn, 0)
}

// tripped reports whether the breaker for host is open.
func (bs *breakerSet) tripped(host string) bool {
	bs.mu.Lock()
	breaker, ok := bs.breakers[host]
	bs.mu.Unlock()
	return ok && breaker.Tripped()
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
