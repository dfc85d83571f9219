// Package bridge is the channel to the inference service.
//
// Client sends player queries to POST /chat and decodes the typed reply,
// resets conversations with POST /reset/{playerUUID} and probes GET /health.
// Requests pass a rate limiter and a circuit breaker; none are retried.
//
// Worker owns the single outbound goroutine. Everything that talks to the
// service is submitted to it so a slow reply never stalls a session's read
// loop or the command scheduler.
//
// Example Usage:
//
//	client := bridge.NewClient(bridge.Options{BaseURL: "http://localhost:3000"})
//	worker := bridge.NewWorker(0, logger)
//	defer worker.Close()
//
//	worker.Submit(func(ctx context.Context) {
//		p, err := client.Chat(ctx, bridge.ChatRequest{PlayerName: "Steve", PlayerUUID: id, Message: "make it day"})
//		...
//	})
package bridge
