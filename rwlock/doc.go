// Package rwlock implements a four-role reader/writer/upgrade lock; see
// lock.go for the type and its operations.
package rwlock
