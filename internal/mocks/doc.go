// Package mocks provides centralized mock implementations for testing.
//
// Each mock implements one application interface, records its calls and lets
// a test override behavior per method through function fields. Methods with
// no function field fall back to a simple default (empty results or Err).
//
// Usage:
//
//	import "github.com/sharebite/sharebite-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    foods := &mocks.MockFoodStore{
//	        FindFn: func(ctx context.Context, filter store.FoodFilter) ([]*domain.Food, error) {
//	            return nil, errors.New("connection refused")
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Assert the interface with a var _ declaration
package mocks
