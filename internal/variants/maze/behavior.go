package maze

import (
	"math/rand"

	"github.com/lernspiel/quizade/internal/engine"
)

// Behavior selects a ghost's direction-choice policy.
type Behavior int

// Ghost behaviors, one per ghost.
const (
	Chase Behavior = iota
	Ambush
	Random
	Flee
)

// ambushLead is how many cells ahead of the player the ambusher aims.
const ambushLead = 4

// ChooseDir picks the next grid direction for a ghost at cell pos with
// the given heading. Pure function over the grid; the only state is the
// caller's RNG for Random.
func ChooseDir(g *Grid, b Behavior, pos, heading, player, playerDir engine.Vec, rnd *rand.Rand) engine.Vec {
	options := g.openDirs(pos, heading)
	if len(options) == 0 {
		return engine.Vec{}
	}
	if len(options) == 1 {
		return options[0]
	}
	switch b {
	case Random:
		return options[rnd.Intn(len(options))]
	case Ambush:
		target := player.Add(playerDir.Scale(ambushLead))
		return nearest(options, pos, target, false)
	case Flee:
		return nearest(options, pos, player, true)
	default:
		return nearest(options, pos, player, false)
	}
}

// nearest returns the option minimizing (or, fleeing, maximizing) the
// manhattan distance from pos+option to target. Ties keep the first
// option in up/left/down/right order.
func nearest(options []engine.Vec, pos, target engine.Vec, flee bool) engine.Vec {
	best := options[0]
	bestD := manhattan(pos.Add(best), target)
	for _, d := range options[1:] {
		dist := manhattan(pos.Add(d), target)
		if (flee && dist > bestD) || (!flee && dist < bestD) {
			best, bestD = d, dist
		}
	}
	return best
}

func manhattan(a, b engine.Vec) float64 {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
