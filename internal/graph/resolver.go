package graph

// ParentResolver computes effective parents against a visible set: the
// nearest ancestors of a revision that are themselves visible, skipping any
// filtered-out revisions in between.
//
// Resolved lists are cached for the lifetime of the resolver. A different
// visible set needs a new resolver.
type ParentResolver struct {
	src      ParentSource
	included RevSet
	cache    map[Rev][]Rev
}

// NewParentResolver creates a resolver bound to the included set.
func NewParentResolver(src ParentSource, included RevSet) *ParentResolver {
	return &ParentResolver{
		src:      src,
		included: included,
		cache:    make(map[Rev][]Rev),
	}
}

// Resolve returns the effective parents of rev, in raw parent order with
// duplicates removed. The returned slice must not be modified.
func (r *ParentResolver) Resolve(rev Rev) ([]Rev, error) {
	if parents, ok := r.cache[rev]; ok {
		return parents, nil
	}

	stack := []Rev{rev}
	// revisions deferred on the stack while one of their parents resolves
	visiting := make(map[Rev]bool)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := r.cache[current]; ok {
			continue
		}

		raw, err := r.src.RawParents(current)
		if err != nil {
			return nil, lookupFailed("parents of", current, err)
		}

		final := make([]Rev, 0, len(raw))
		seen := make(map[Rev]bool, len(raw))
		add := func(p Rev) {
			if !seen[p] {
				seen[p] = true
				final = append(final, p)
			}
		}

		deferred := false
		for _, p := range raw {
			if p == NullRev {
				continue
			}
			if r.included.Contains(p) {
				add(p)
				continue
			}
			if cached, ok := r.cache[p]; ok {
				for _, q := range cached {
					add(q)
				}
				continue
			}
			if visiting[p] || p == current {
				return nil, &StructuralError{Rev: p, Reason: "revision is its own ancestor"}
			}
			visiting[current] = true
			stack = append(stack, current, p)
			deferred = true
			break
		}
		if deferred {
			continue
		}

		delete(visiting, current)
		r.cache[current] = final
	}

	return r.cache[rev], nil
}
