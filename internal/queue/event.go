// Package queue defines the property.listed message payload, its
// publisher, and the background consumer that records listings.
package queue

// PropertyListedEvent is published when a new property is successfully
// inserted. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type PropertyListedEvent struct {
	PropertyID        int64  `json:"property_id"`
	OwnerID           int64  `json:"owner_id"`
	Title             string `json:"title"`
	City              string `json:"city"`
	CostPerNightCents int64  `json:"cost_per_night_cents"`
	ListedAt          string `json:"listed_at"`
}
