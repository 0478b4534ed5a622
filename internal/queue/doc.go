// Package queue schedules work items by absolute run-at time.
//
// The priority queue is an in-process min-heap with per-item duplicate
// suppression: one outstanding work item per item, ordered by when it should
// next run. The dispatcher drains it through a semaphore-bounded worker
// pool, requeueing successes at the classifier's cadence and failures at a
// fixed retry delay.
package queue
