// Package reporting publishes per-element results of a batch.
//
// A Reporter receives one Result per element, either a sum or a failure.
// Console writes human-readable lines, NewRedis stores results and
// success/failure counters in Redis hashes, and Multi combines reporters.
package reporting
