// Package postgres provides the PostgreSQL implementation of store.FoodStore.
// Records are kept as JSONB documents next to a typed expiry column used for
// ordering. The schema is managed by goose migrations embedded in the binary.
package postgres
