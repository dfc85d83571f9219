package scheduler

import "time"

// Scheduled is one entry of a batch's dispatch plan.
type Scheduled struct {
	Command string
	Index   int
	Delay   time.Duration
	Last    bool
}

// Plan spaces commands at a fixed interval: entry i is due at i*interval
// after the batch is accepted.
func Plan(commands []string, interval time.Duration) []Scheduled {
	plan := make([]Scheduled, len(commands))
	for i, cmd := range commands {
		plan[i] = Scheduled{
			Command: cmd,
			Index:   i,
			Delay:   time.Duration(i) * interval,
			Last:    i == len(commands)-1,
		}
	}
	return plan
}
