package monitor

// Store is the health record store: the mapping from endpoint identity to its
// monitoring configuration and live state. Implementations must be safe for
// concurrent use and must never block on I/O; every method operates on
// in-memory state only.
type Store interface {
	// Upsert creates or replaces the record for ep.URL.
	Upsert(ep Endpoint)

	// Get returns a copy of the record for the given normalized URL.
	// Returns ErrEndpointNotFound when the endpoint is not registered.
	Get(url string) (Endpoint, error)

	// List returns a snapshot of all records, sorted by URL. Mutating the
	// returned slice does not affect the store.
	List() []Endpoint

	// Remove deletes the record for the given normalized URL.
	// Returns ErrEndpointNotFound when the endpoint is not registered.
	Remove(url string) error

	// Len returns the number of registered endpoints.
	Len() int

	// Reset removes all records.
	Reset()
}
