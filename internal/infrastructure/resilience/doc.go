/*
Package resilience provides a circuit breaker for the inference channel.

# Overview

When the inference service is down every chat request would otherwise wait
for a connection timeout. The breaker notices repeated failures and fails
fast for a while, then lets a few trial requests through to see whether the
service is back.

# Usage

	breaker := resilience.New("inference", resilience.Settings{
		MaxRequests: 1,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	resp, err := resilience.Do(breaker, func() (*resty.Response, error) {
		return req.Post(url)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open
*/
package resilience
