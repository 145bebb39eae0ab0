package engine

// EntityView is an immutable render projection of one entity.
type EntityView struct {
	Kind   EntityKind
	X      float64
	Y      float64
	Answer int
	Label  string
	Hit    bool
}

// Snapshot is the immutable state handed to the render step. The view
// layer draws it and never reaches back into the engine.
type Snapshot struct {
	Status   Status
	Score    int
	Lives    int
	Target   int
	Question string
	Answers  []string
	Outcome  Outcome

	Width  int
	Height int

	Player   EntityView
	Entities []EntityView
	Backdrop []string
}

// Snapshot copies the current world and session state for rendering.
func (e *Engine) Snapshot() Snapshot {
	answers := make([]string, len(e.question.Answers))
	for i, a := range e.question.Answers {
		answers[i] = a.Text
	}
	entities := make([]EntityView, 0, len(e.world.Entities))
	for _, ent := range e.world.Entities {
		entities = append(entities, EntityView{
			Kind:   ent.Kind,
			X:      ent.Pos.X,
			Y:      ent.Pos.Y,
			Answer: ent.Answer,
			Label:  ent.Label,
			Hit:    ent.Hit,
		})
	}
	snap := Snapshot{
		Status:   e.session.Status,
		Score:    e.session.Score,
		Lives:    e.session.Lives,
		Target:   e.cfg.TargetScore,
		Question: e.question.Question,
		Answers:  answers,
		Outcome:  e.outcome,
		Width:    int(e.cfg.Width),
		Height:   int(e.cfg.Height),
		Player: EntityView{
			Kind: KindPlayer,
			X:    e.world.Player.Pos.X,
			Y:    e.world.Player.Pos.Y,
		},
		Entities: entities,
	}
	if b, ok := e.variant.(Backdrop); ok {
		snap.Backdrop = b.Backdrop(e.world)
	}
	return snap
}
