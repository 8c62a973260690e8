package custody

import (
	"bytes"
	"sort"
)

// heirRegistry is the flat heir set. count is maintained incrementally and
// must always equal len(members).
type heirRegistry struct {
	members map[Identity]struct{}
	count   int
}

func newHeirRegistry() *heirRegistry {
	return &heirRegistry{members: make(map[Identity]struct{})}
}

func (r *heirRegistry) contains(id Identity) bool {
	_, ok := r.members[id]
	return ok
}

func (r *heirRegistry) add(id Identity) error {
	if r.contains(id) {
		return ErrAlreadyHeir
	}
	r.members[id] = struct{}{}
	r.count++
	return nil
}

func (r *heirRegistry) remove(id Identity) error {
	if !r.contains(id) {
		return ErrNotAnHeir
	}
	delete(r.members, id)
	r.count--
	return nil
}

// list returns members in deterministic byte order.
func (r *heirRegistry) list() []Identity {
	out := make([]Identity, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	sortIdentities(out)
	return out
}

func sortIdentities(ids []Identity) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
