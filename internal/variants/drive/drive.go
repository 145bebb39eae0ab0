// Package drive implements the lane-switching driving variant: three
// lanes, answer cars scrolling toward the player, and hazard trucks on a
// timer. Driving into a car selects its answer.
package drive

import (
	"github.com/lernspiel/quizade/internal/engine"
)

// Recommended playfield size for this variant.
const (
	FieldWidth  = 24
	FieldHeight = 20
)

// LaneCount is fixed by the road layout.
const LaneCount = 3

const (
	scrollSpeed     = 7.0
	laneSwitchSpeed = 20.0
	truckEvery      = 2.8
	carGap          = 6.0
)

// Drive tracks the player's lane and the truck spawn timer.
type Drive struct {
	lane     int
	spawnAcc float64
}

// New returns a fresh driving variant.
func New() *Drive { return &Drive{} }

// Name implements engine.Variant.
func (d *Drive) Name() string { return "drive" }

// LaneX returns the center x of a lane.
func LaneX(w *engine.World, lane int) float64 {
	return (float64(lane) + 0.5) * w.Width / LaneCount
}

// Init puts the car in the middle lane near the bottom edge.
func (d *Drive) Init(w *engine.World) {
	d.lane = 1
	d.spawnAcc = 0
	w.Player = engine.Entity{
		Kind:   engine.KindPlayer,
		Pos:    engine.Vec{X: LaneX(w, 1), Y: w.Height - 3},
		Half:   engine.Vec{X: 0.9, Y: 1},
		Answer: -1,
	}
}

// Spawn drops one answer car per answer, staggered above the field so
// they arrive with a gap.
func (d *Drive) Spawn(w *engine.World, q engine.ActiveQuestion) {
	lanes := w.Rand.Perm(LaneCount)
	for i, a := range q.Answers {
		d.spawnCar(w, i, a.Correct, a.Text, lanes[i%LaneCount], -carGap*float64(i))
	}
}

func (d *Drive) spawnCar(w *engine.World, answer int, correct bool, label string, lane int, y float64) {
	w.Spawn(engine.Entity{
		Kind:    engine.KindCar,
		Pos:     engine.Vec{X: LaneX(w, lane), Y: y - 2},
		Vel:     engine.Vec{Y: scrollSpeed * w.SpeedScale},
		Half:    engine.Vec{X: 0.9, Y: 1},
		Answer:  answer,
		Correct: correct,
		Label:   label,
	})
}

// Apply switches lanes; the car slides over during Advance.
func (d *Drive) Apply(_ *engine.World, intent engine.Intent) {
	switch intent {
	case engine.IntentLeft:
		if d.lane > 0 {
			d.lane--
		}
	case engine.IntentRight:
		if d.lane < LaneCount-1 {
			d.lane++
		}
	}
}

// Advance slides the player toward its lane, scrolls traffic, and
// spawns hazard trucks on a timer.
func (d *Drive) Advance(w *engine.World, dt float64) {
	target := LaneX(w, d.lane)
	diff := target - w.Player.Pos.X
	step := laneSwitchSpeed * dt
	switch {
	case abs(diff) <= step:
		w.Player.Pos.X = target
	case diff > 0:
		w.Player.Pos.X += step
	default:
		w.Player.Pos.X -= step
	}

	for _, e := range w.Entities {
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		if !e.Hit && e.Pos.Y > w.Height+1 {
			e.Hit = true
			e.Fade = 0
		}
	}

	d.spawnAcc += dt
	if d.spawnAcc >= truckEvery/w.SpeedScale {
		d.spawnAcc = 0
		w.Spawn(engine.Entity{
			Kind:   engine.KindObstacle,
			Pos:    engine.Vec{X: LaneX(w, w.Rand.Intn(LaneCount)), Y: -2},
			Vel:    engine.Vec{Y: scrollSpeed * 1.25 * w.SpeedScale},
			Half:   engine.Vec{X: 0.9, Y: 1.4},
			Answer: -1,
			Hazard: true,
		})
	}
}

// Collisions reports traffic overlapping the player's car.
func (d *Drive) Collisions(w *engine.World) []*engine.Entity {
	var out []*engine.Entity
	for _, e := range w.Entities {
		if e.Hit {
			continue
		}
		if e.Kind != engine.KindCar && e.Kind != engine.KindObstacle {
			continue
		}
		if engine.Overlaps(&w.Player, e) {
			out = append(out, e)
		}
	}
	return out
}

// EnsureCorrect re-sends the correct car once it has scrolled past.
func (d *Drive) EnsureCorrect(w *engine.World, q engine.ActiveQuestion) {
	if w.CorrectPresent() {
		return
	}
	for i, a := range q.Answers {
		if a.Correct {
			d.spawnCar(w, i, true, a.Text, w.Rand.Intn(LaneCount), 0)
			return
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
