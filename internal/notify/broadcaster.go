// Package notify delivers live events to room-scoped subscribers such as
// the shop dashboard and the customer-side job tracker.
package notify

import (
	"context"
	"errors"
	"time"
)

// ErrNotInitialized is returned when a component is constructed without a
// working broadcaster.
var ErrNotInitialized = errors.New("notify: broadcaster not initialized")

// Broadcaster publishes an event to every subscriber of a room. Delivery is
// fire-and-forget: an absent subscriber is not an error.
type Broadcaster interface {
	Publish(ctx context.Context, room, event string, payload any) error
}

// Envelope is the wire format for a published event.
type Envelope struct {
	Event       string    `json:"event"`
	Room        string    `json:"room"`
	Data        any       `json:"data"`
	PublishedAt time.Time `json:"published_at"`
}

// ShopRoom is the room a shop's live dashboard listens on.
func ShopRoom(shopOwnerID string) string {
	return "shop_" + shopOwnerID
}

// JobRoom is the room a customer tracking one specific job listens on.
func JobRoom(jobID string) string {
	return "printjob_" + jobID
}
