package engine

// Vec is a 2D position or velocity in playfield units (character cells).
type Vec struct {
	X float64
	Y float64
}

// Add returns v translated by o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v multiplied by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// EntityKind tags an entity for rendering and variant logic.
type EntityKind int

// Entity kinds across the variants.
const (
	KindPlayer EntityKind = iota
	KindOrb
	KindSegment
	KindGate
	KindShip
	KindBullet
	KindGhost
	KindZone
	KindCar
	KindObstacle
)

// Entity is any simulated object on the playfield. Answer-bound entities
// carry the index of the answer they represent; hazards cost a life on
// contact without reporting a quiz outcome.
type Entity struct {
	ID   int
	Kind EntityKind
	Pos  Vec
	Vel  Vec

	// Radius selects circle collision when > 0; otherwise Half gives
	// the box half-extents.
	Radius float64
	Half   Vec

	// Answer is the bound answer index, or -1 for unbound entities.
	Answer  int
	Correct bool
	Hazard  bool
	Label   string

	// Hit is set the moment a collision is resolved; a hit entity is
	// excluded from all further collision tests and fades out.
	Hit  bool
	Fade float64

	// Static entities survive question changes and pruning bounds
	// checks (maze walls and zones, lane markers).
	Static bool
}

// Overlaps reports whether two entities intersect, using circle or box
// tests depending on their shapes.
func Overlaps(a, b *Entity) bool {
	switch {
	case a.Radius > 0 && b.Radius > 0:
		dx := a.Pos.X - b.Pos.X
		dy := a.Pos.Y - b.Pos.Y
		r := a.Radius + b.Radius
		return dx*dx+dy*dy < r*r
	case a.Radius > 0:
		return circleBox(a, b)
	case b.Radius > 0:
		return circleBox(b, a)
	default:
		return boxBox(a, b)
	}
}

func boxBox(a, b *Entity) bool {
	ah, bh := boxHalf(a), boxHalf(b)
	if a.Pos.X-ah.X >= b.Pos.X+bh.X || b.Pos.X-bh.X >= a.Pos.X+ah.X {
		return false
	}
	if a.Pos.Y-ah.Y >= b.Pos.Y+bh.Y || b.Pos.Y-bh.Y >= a.Pos.Y+ah.Y {
		return false
	}
	return true
}

func circleBox(c, b *Entity) bool {
	bh := boxHalf(b)
	cx := clampF(c.Pos.X, b.Pos.X-bh.X, b.Pos.X+bh.X)
	cy := clampF(c.Pos.Y, b.Pos.Y-bh.Y, b.Pos.Y+bh.Y)
	dx := c.Pos.X - cx
	dy := c.Pos.Y - cy
	return dx*dx+dy*dy < c.Radius*c.Radius
}

// boxHalf returns the box half-extents, defaulting to half a cell so a
// zero-value entity still occupies its own cell.
func boxHalf(e *Entity) Vec {
	if e.Half.X > 0 || e.Half.Y > 0 {
		return e.Half
	}
	return Vec{X: 0.5, Y: 0.5}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
