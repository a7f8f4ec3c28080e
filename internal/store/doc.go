// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying document store from the
// application's core logic; the postgres, mongo and memory packages under
// internal/platform provide the implementations.
package store
