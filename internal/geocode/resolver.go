package geocode

import (
	"context"
	"sync"
)

// Resolver serializes reverse-geocode results per picker session. Responses
// arrive in no particular order over the network; each request gets a
// monotonically increasing sequence for its key, and a result whose sequence
// is no longer the newest reports itself superseded so a slow early lookup
// can never overwrite a later map click.
type Resolver struct {
	client *Client

	mu     sync.Mutex
	latest map[string]uint64
}

func NewResolver(client *Client) *Resolver {
	return &Resolver{
		client: client,
		latest: make(map[string]uint64),
	}
}

// Begin registers a new reverse lookup for key and returns its sequence.
func (r *Resolver) Begin(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.latest[key]++
	return r.latest[key]
}

// Current reports whether seq is still the newest request for key.
func (r *Resolver) Current(key string, seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.latest[key] == seq
}

// Search forwards a free-text lookup to the client. Forward searches carry
// no sequence guard; callers submit them explicitly rather than on every
// map movement.
func (r *Resolver) Search(ctx context.Context, query string) ([]Place, error) {
	return r.client.Search(ctx, query)
}

// Reverse runs one guarded reverse lookup. The label falls back to the
// coordinate string when the API fails; superseded is true when a newer
// request for the same key started while this one was in flight, in which
// case the caller must discard the label.
func (r *Resolver) Reverse(ctx context.Context, key string, lat, lng float64) (label string, superseded bool) {
	seq := r.Begin(key)

	label, err := r.client.Reverse(ctx, lat, lng)
	if err != nil {
		label = FallbackLabel(lat, lng)
	}

	return label, !r.Current(key, seq)
}
