// Package api handles incoming HTTP requests for the food listing resource,
// request decoding and response formatting. It acts as an adapter between
// HTTP clients and the FoodService, translating service errors into status
// codes and the stable client-facing messages in errors.go.
//
// Authentication and ownership checks live in the middleware subpackage and
// are composed per route by the server; handlers assume they already ran.
package api
