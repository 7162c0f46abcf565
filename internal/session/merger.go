package session

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultTTL is the session expiry window when none is configured.
const DefaultTTL = 6 * time.Hour

// Merger is the single write path to the session store. It loads the
// current document, applies a partial update field-by-field, stamps
// timestamps, and writes back with the TTL reset so an active
// conversation never expires mid-flow.
type Merger struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// MergerOpts holds parameters for creating a Merger.
type MergerOpts struct {
	Store Store
	TTL   time.Duration    // defaults to DefaultTTL
	Now   func() time.Time // defaults to time.Now; tests inject a fake clock
}

// NewMerger creates a Merger.
func NewMerger(opts MergerOpts) (*Merger, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session: merger: store is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Merger{store: opts.Store, ttl: ttl, now: now}, nil
}

// TTL returns the configured expiry window.
func (m *Merger) TTL() time.Duration {
	return m.ttl
}

// Load returns the current session for an identity, or a fresh empty one
// if none exists, the previous one expired, or the store is unavailable.
// A store outage degrades to a restarted conversation rather than
// blocking the inspector.
func (m *Merger) Load(ctx context.Context, identity string) *Session {
	s, err := m.store.Load(ctx, identity)
	if err != nil {
		log.Printf("session: load %s: degrading to empty session: %v", identity, err)
		return New(identity)
	}
	if s == nil {
		return New(identity)
	}
	return s
}

// Merge loads the current document, applies the partial over it, stamps
// LastUpdatedAt (and CreatedAt on first write), and persists with the TTL
// reset. The merged session is returned even when the write fails, so
// callers can still build a reply from it.
//
// Pieces of the partial that violate document invariants (a draft carrying
// fields illegal for its stage, an upload not referencing exactly one of
// task/location) are dropped before applying: the rest of the update still
// lands and the conversation keeps going.
func (m *Merger) Merge(ctx context.Context, identity string, p Partial) (*Session, error) {
	s := m.Load(ctx, identity)

	p = m.sanitize(identity, p)
	p.apply(s)

	now := m.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.LastUpdatedAt = now

	if err := m.store.Save(ctx, identity, s, m.ttl); err != nil {
		return s, fmt.Errorf("session: merge %s: %w", identity, err)
	}
	return s, nil
}

// sanitize validates the invariant-carrying pieces of a partial and drops
// the ones that fail, logging each drop.
func (m *Merger) sanitize(identity string, p Partial) Partial {
	if p.Draft != nil {
		if err := p.Draft.Validate(); err != nil {
			log.Printf("session: merge %s: dropping draft: %v", identity, err)
			p.Draft = nil
		}
	}
	if len(p.AppendMedia) > 0 {
		kept := make([]MediaUpload, 0, len(p.AppendMedia))
		for _, u := range p.AppendMedia {
			if err := u.Validate(); err != nil {
				log.Printf("session: merge %s: dropping upload: %v", identity, err)
				continue
			}
			kept = append(kept, u)
		}
		p.AppendMedia = kept
	}
	return p
}

// Reset deletes the session document, returning the conversation to the
// unidentified state on next contact.
func (m *Merger) Reset(ctx context.Context, identity string) error {
	if err := m.store.Delete(ctx, identity); err != nil {
		return fmt.Errorf("session: reset %s: %w", identity, err)
	}
	return nil
}
