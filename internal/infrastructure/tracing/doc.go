/*
Package tracing follows requests through the bridge and into the inference
service.

Each ops API request and each inference call gets a span. Spans share a
trace ID propagated through context and the X-Trace-ID / X-Span-ID headers,
so a chat exchange can be matched against the inference service's own logs.
Finished spans are written to the structured log by a background collector.

# Usage

	tracer := tracing.New("minebot-bridge", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "inference.chat")
	tracing.Inject(ctx, req.Header.Set)
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

A nil *Tracer is accepted everywhere and only threads IDs through context.
*/
package tracing
