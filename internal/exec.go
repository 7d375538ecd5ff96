package internal

// Exec controls how the engine schedules asynchronous work. Spawn launches
// a background task (a gateway call); Post marshals its effect back onto
// the page event loop, which is the only place shared state is touched.
type Exec struct {
	Spawn func(fn func())
	Post  func(fn func())
}

// GoExec runs tasks on goroutines and posts effects through the given
// function, typically an event-loop enqueue.
func GoExec(post func(fn func())) Exec {
	return Exec{
		Spawn: func(fn func()) { go fn() },
		Post:  post,
	}
}

// DirectExec runs everything inline on the caller's goroutine. Used by the
// replay harness and tests, where the gateway is synthetic and determinism
// matters more than latency.
func DirectExec() Exec {
	return Exec{
		Spawn: func(fn func()) { fn() },
		Post:  func(fn func()) { fn() },
	}
}
