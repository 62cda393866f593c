package batch

import "time"

// Opts is used to configure an Executor via the NewExecutor function.
type Opts struct {
	// MaxSize is the number of tasks that causes a batch to run immediately.
	MaxSize int
	// MaxLinger is how long a batch waits for more tasks before it runs.
	MaxLinger time.Duration
}

func (o Opts) validate() {
	if o.MaxSize <= 1 {
		panic("maximum batch size must be greater than 1")
	}

	if o.MaxLinger <= 0 {
		panic("batch linger must be greater than 0")
	}
}
