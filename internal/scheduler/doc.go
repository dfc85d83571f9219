/*
Package scheduler paces validated command batches into the game.

The game processes commands over a single channel, so a burst of hundreds of
fill or //set commands risks server-side throttling. Instead every batch is
spread out at a fixed interval and replayed by one worker goroutine:

	index:   0      1      2      3
	due:     t0     t0+i   t0+2i  t0+3i

All pending entries from all batches live in one min-heap ordered by due time
(then enqueue order), so commands of a batch always reach the sink in list
order. The interval is not adjusted for execution jitter and the sink is not
asked to acknowledge anything.

Usage:

	s := scheduler.New(logger).WithMetrics(metrics)
	defer s.Stop()

	s.Dispatch(scheduler.Batch{
		Description:   "Pixel art",
		Commands:      cmds,
		Interval:      150 * time.Millisecond,
		ProgressEvery: 10,
		Sink:          session,
	})
*/
package scheduler
