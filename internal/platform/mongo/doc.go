// Package mongo provides the MongoDB implementation of store.FoodStore.
// Records live in a single collection as flat documents keyed by ObjectID,
// the layout used by the existing ShareBite web client.
package mongo
