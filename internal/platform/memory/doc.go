// Package memory provides a process-local implementation of store.FoodStore.
// It is used for development runs without a database and as the backing
// store in handler tests.
package memory
