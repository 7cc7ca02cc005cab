package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ESPNBreakerName names the breaker guarding the ESPN golf endpoints
const ESPNBreakerName = "espn"

// NewCircuitBreaker builds the breaker for one upstream. It opens after threshold consecutive
// failures, then lets threshold trial requests through once timeout has passed.
func NewCircuitBreaker(name string, threshold int, timeout time.Duration, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(threshold),
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}
