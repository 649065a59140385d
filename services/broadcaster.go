package services

// Broadcaster publishes presence changes to connected clients. Delivery is
// best effort: presence truth lives in the registry and clients resync by
// re-fetching on connect, so a missed broadcast only delays convergence.
type Broadcaster interface {
	// ToRoom publishes to the subscribers of one gathering's room.
	ToRoom(room, event string, payload interface{})
	// ToAll publishes to every connected client.
	ToAll(event string, payload interface{})
}
