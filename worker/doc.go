// Package worker runs route requests on one dedicated goroutine.
//
// What:
//
//   - Callers Submit requests into a bounded FIFO queue and read results
//     from Results; they never run a search themselves.
//   - One consumer goroutine (Run) dequeues, routes and publishes through a
//     single-slot channel.
//   - Invalidate bumps an epoch counter. A request captures the epoch at
//     Submit; work whose epoch is stale is dropped on dequeue, aborted at
//     the next search checkpoint, and never published.
//   - A panic inside a task is recovered at the loop boundary and published
//     as a result carrying ErrTaskPanic; the loop keeps going.
//   - Routers are created lazily per medium through a Factory and rebuilt
//     when a snapshot arrives on a different grid.
//
// Lifecycle:
//
//	New(factory) ──► Submit ... ──► Run(ctx) ──► ctx done ──► Results closed
//
// Run may be called once. Submit is safe from any goroutine.
//
// Options:
//
//   - WithQueueSize(n):  queue capacity, n ≥ 1 (default 16).
//   - WithLogger(l):     structured logger; discards by default.
//
// Errors:
//
//   - ErrNilFactory:       New without a factory.
//   - ErrQueueFull:        Submit on a full queue.
//   - ErrStopped:          Submit after Run returned.
//   - ErrRunning:          second call to Run.
//   - ErrTaskPanic:        a task panicked (carried in Result.Err).
//   - ErrOptionViolation:  invalid option value.
package worker
