package verlet

import (
	"sort"

	"github.com/akmonengine/verlet/actor"
	"github.com/akmonengine/verlet/constraint"
	"github.com/akmonengine/verlet/vmath"
)

type pairKey struct {
	bodyA int
	bodyB int
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB int) pairKey {
	if bodyB < bodyA {
		bodyA, bodyB = bodyB, bodyA
	}
	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

// BroadPhase streams the candidate pairs of a grid that was already filled
func BroadPhase(spatialGrid *SpatialGrid, bodies []actor.Body, workersCount int) <-chan Pair {
	return spatialGrid.FindPairsParallel(bodies, workersCount)
}

// CollectPairs drains the stream into dst, dropping pairs already seen in
// another cell, and sorts the result so the response order is deterministic.
// seen is cleared before use.
func CollectPairs(pairs <-chan Pair, dst []Pair, seen map[pairKey]struct{}) []Pair {
	clear(seen)
	for pair := range pairs {
		key := makePairKey(pair.L, pair.R)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, pair)
	}

	sort.Slice(dst, func(i, j int) bool {
		if dst[i].L != dst[j].L {
			return dst[i].L < dst[j].L
		}
		return dst[i].R < dst[j].R
	})

	return dst
}

// NarrowPhase resolves the pairs serially. The first pass records trigger
// overlaps and active pairs for events; later passes only push solids apart
// again where earlier responses created new overlaps.
func NarrowPhase(bodies []actor.Body, pairs []Pair, dt float64, iterations int, events *Events) {
	for iteration := 0; iteration < iterations; iteration++ {
		for _, pair := range pairs {
			contact := constraint.Contact{
				IndexL: pair.L,
				IndexR: pair.R,
				BodyL:  &bodies[pair.L],
				BodyR:  &bodies[pair.R],
			}

			if iteration > 0 {
				if !contact.IsTrigger() {
					contact.Solve(dt)
				}
				continue
			}

			var side vmath.Normal
			if events != nil {
				side = contact.BodyR.AABB().CollisionAxisWithDirection(contact.BodyL.PreviousAABB())
			}
			if contact.Solve(dt) && events != nil {
				events.recordPair(pair, contact.IsTrigger(), side)
			}
		}
	}
}
