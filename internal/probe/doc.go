// Package probe implements the sampling coordinator at the heart of
// pingmon: a single-flight, generation-gated dispatcher for asynchronous
// network measurements.
//
// A Coordinator owns three pieces of state: a monotonically increasing
// generation counter, an admission flag bounding outstanding work to one
// task, and the per-host history of accepted measurements. All of them
// belong to a single control goroutine (in the application, the Bubble Tea
// update loop): Attempt, Deliver, Stop, Clear and Reconfigure must only be
// called from that goroutine. The sampling operation itself runs on its own
// goroutine and communicates back exclusively through the delivery channel,
// so no locking is needed.
//
// Stopping, clearing or reconfiguring the coordinator advances the
// generation. A dispatched task captures the generation in its Envelope;
// when the result arrives, Deliver discards it silently if the generation
// has moved on. Tasks are never cancelled mid-flight, only ignored on
// completion. Skipped attempts and stale deliveries are ordinary outcomes,
// not errors.
package probe
