// Package service contains the application-specific use cases. FoodService
// sits between the HTTP handlers and the document store: it bounds every
// store call with the configured operation timeout, logs failures and wraps
// unexpected errors so the API layer can map them to responses.
//
// The service depends on the store.FoodStore interface, never on a specific
// backend.
package service
