package router

import "context"

// semaphore is a buffered-channel concurrency gate: acquire sends into
// the channel, release receives from it. Blocked acquirers queue FIFO in
// practice for this workload's scale, matching the worker-pool shape the
// teacher's batch processor uses for its own bounded fan-out.
type semaphore struct {
	slots chan struct{}
}

func newSemaphore(size int) *semaphore {
	if size <= 0 {
		size = 1
	}
	return &semaphore{slots: make(chan struct{}, size)}
}

// acquire blocks until a slot is free or ctx is cancelled.
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.slots
}
