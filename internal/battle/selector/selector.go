// Package selector picks the two items of a new daily battle. Selection is
// pure; persisting the chosen pair is the battle repository's job.
package selector

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/battle/domain"
)

// maxRedraws bounds the second-item retry loop before falling back to a
// deterministic scan.
const maxRedraws = 16

// IntN is the randomness source, rand.IntN in production and a fixed function
// in tests.
type IntN func(n int) int

// Pick draws two distinct items from pool, preferring items absent from the
// recent pairings. Repetition avoidance is best effort: when exclusion would
// leave fewer than two candidates the full pool is used. Returns
// domain.ErrInsufficientCandidates when the pool has fewer than two items.
func Pick(pool []snowflake.ID, recent []domain.Pair, intn IntN) (a, b snowflake.ID, err error) {
	if len(pool) < 2 {
		return 0, 0, domain.ErrInsufficientCandidates
	}

	used := make(map[snowflake.ID]struct{}, len(recent)*2)
	for _, p := range recent {
		used[p.A] = struct{}{}
		used[p.B] = struct{}{}
	}

	fresh := make([]snowflake.ID, 0, len(pool))
	for _, id := range pool {
		if _, ok := used[id]; !ok {
			fresh = append(fresh, id)
		}
	}

	candidates := fresh
	if len(candidates) < 2 {
		candidates = pool
	}

	a = candidates[intn(len(candidates))]
	for i := 0; i < maxRedraws; i++ {
		b = candidates[intn(len(candidates))]
		if b != a {
			return a, b, nil
		}
	}

	// Degenerate randomness; walk the candidates for any id other than a.
	for _, id := range candidates {
		if id != a {
			return a, id, nil
		}
	}
	return 0, 0, domain.ErrInsufficientCandidates
}
