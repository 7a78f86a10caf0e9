package ingest

import (
	"strings"

	"github.com/hangarbay/hangar-server/internal/domain"
)

// Resolver maps external identifiers and display names to internal keys,
// separately per entity kind. One resolver is built per sync run and
// discarded afterward; it is never shared across runs or requests.
type Resolver struct {
	keys  map[domain.Kind]map[string]int64
	names map[domain.Kind]map[string]int64
}

// NewResolver returns an empty resolver covering every catalog kind.
func NewResolver() *Resolver {
	r := &Resolver{
		keys:  make(map[domain.Kind]map[string]int64),
		names: make(map[domain.Kind]map[string]int64),
	}
	for _, kind := range domain.SyncOrder {
		r.keys[kind] = make(map[string]int64)
		r.names[kind] = make(map[string]int64)
	}
	return r
}

// Bind records an origin key and display name for an internal key.
func (r *Resolver) Bind(kind domain.Kind, originKey, name string, id int64) {
	r.keys[kind][originKey] = id
	r.names[kind][strings.ToLower(name)] = id
}

// BindNames merges a name -> id map, keys already lowercased.
func (r *Resolver) BindNames(kind domain.Kind, names map[string]int64) {
	for name, id := range names {
		r.names[kind][name] = id
	}
}

// BindKeys merges an origin key -> id map.
func (r *Resolver) BindKeys(kind domain.Kind, keys map[string]int64) {
	for key, id := range keys {
		r.keys[kind][key] = id
	}
}

// Resolve looks a reference up by origin key first, then by display name.
// Local dataset records may reference entities either way.
func (r *Resolver) Resolve(kind domain.Kind, ref string) (int64, bool) {
	if id, ok := r.keys[kind][ref]; ok {
		return id, true
	}
	id, ok := r.names[kind][strings.ToLower(ref)]
	return id, ok
}

// ResolveName looks a reference up by display name only, case-insensitively.
func (r *Resolver) ResolveName(kind domain.Kind, name string) (int64, bool) {
	id, ok := r.names[kind][strings.ToLower(name)]
	return id, ok
}

// resolvePtr resolves an optional reference, returning nil when the
// reference is absent or does not resolve.
func (r *Resolver) resolvePtr(kind domain.Kind, ref *string) *int64 {
	if ref == nil || *ref == "" {
		return nil
	}
	id, ok := r.Resolve(kind, *ref)
	if !ok {
		return nil
	}
	return &id
}
