// Package asyncqueue provides Queue, an unbounded FIFO rendezvous queue
// between Put and Get callers, with no assumption that either side arrives
// first.
package asyncqueue
