// Package quiz implements the adaptive question scheduler.
package quiz

import (
	"math/rand"
	"time"
)

// Params tunes the adaptive weighting. The defaults reproduce the
// observed behavior of the arcade lessons; treat them as policy, not law.
type Params struct {
	// BaseWeight seeds every question and is the normalization target.
	BaseWeight float64
	// MinWeight / MaxWeight clamp every rebalance so no question starves
	// or dominates the draw.
	MinWeight float64
	MaxWeight float64
	// Decay multiplies the weight after a correct answer.
	Decay float64
	// Growth multiplies and Bump adds to the weight after a miss.
	Growth float64
	Bump   float64
	// Pull is the fraction each weight moves toward BaseWeight per
	// Normalize call.
	Pull float64
	// History bounds the anti-repetition ring; the most recent one or
	// two entries are avoided on a draw.
	History int
	// Retries bounds the redraw loop before a repeat is accepted.
	Retries int
}

// DefaultParams returns the documented default tuning.
func DefaultParams() Params {
	return Params{
		BaseWeight: 8,
		MinWeight:  1,
		MaxWeight:  80,
		Decay:      0.6,
		Growth:     1.35,
		Bump:       2,
		Pull:       0.05,
		History:    3,
		Retries:    6,
	}
}

// Scheduler selects the next question by weighted sampling with
// anti-repetition and rebalances weights on reported outcomes. It owns
// its weight slice and history exclusively; callers interact only
// through PickNext and ReportOutcome.
type Scheduler struct {
	params  Params
	weights []float64
	history []int
	rnd     *rand.Rand
}

// New creates a scheduler for a deck of the given size, every question
// seeded with the base weight.
func New(size int, params Params) *Scheduler {
	weights := make([]float64, size)
	for i := range weights {
		weights[i] = params.BaseWeight
	}
	return newScheduler(weights, params)
}

// NewSeeded creates a scheduler with explicit initial weights, used to
// bias a fresh session toward questions missed in earlier runs. Seeds
// are clamped into [MinWeight, MaxWeight].
func NewSeeded(seeds []float64, params Params) *Scheduler {
	weights := make([]float64, len(seeds))
	for i, w := range seeds {
		weights[i] = clamp(w, params.MinWeight, params.MaxWeight)
	}
	return newScheduler(weights, params)
}

func newScheduler(weights []float64, params Params) *Scheduler {
	return &Scheduler{
		params:  params,
		weights: weights,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed makes the draw sequence deterministic; used by tests.
func (s *Scheduler) Seed(seed int64) {
	s.rnd = rand.New(rand.NewSource(seed))
}

// Size returns the deck size.
func (s *Scheduler) Size() int {
	return len(s.weights)
}

// Weights returns a copy of the current weights.
func (s *Scheduler) Weights() []float64 {
	out := make([]float64, len(s.weights))
	copy(out, s.weights)
	return out
}

// PickNext draws the next question index from the cumulative-weight
// distribution. Draws matching the most recent history entries are
// redrawn a bounded number of times; when retries run out the final
// draw excludes those entries from the distribution, so a repeat can
// only surface when the pool is too small to avoid one. Decks of one or
// two questions relax the repetition rules accordingly.
func (s *Scheduler) PickNext() int {
	if len(s.weights) == 0 {
		return -1
	}
	idx := s.draw(nil)
	for attempt := 0; attempt < s.params.Retries && s.tooRecent(idx); attempt++ {
		idx = s.draw(nil)
	}
	if s.tooRecent(idx) {
		idx = s.draw(s.forbidden())
	}
	s.push(idx)
	return idx
}

// ReportOutcome rebalances the weight of an answered question. Correct
// answers decay toward MinWeight so mastered questions grow rare; misses
// grow toward MaxWeight so they come back sooner and more often.
func (s *Scheduler) ReportOutcome(index int, correct bool) {
	if index < 0 || index >= len(s.weights) {
		return
	}
	w := s.weights[index]
	if correct {
		w *= s.params.Decay
	} else {
		w = w*s.params.Growth + s.params.Bump
	}
	s.weights[index] = clamp(w, s.params.MinWeight, s.params.MaxWeight)
}

// Normalize pulls every weight a small fraction toward the base weight,
// preventing permanent extreme skew over long sessions.
func (s *Scheduler) Normalize() {
	for i, w := range s.weights {
		w += (s.params.BaseWeight - w) * s.params.Pull
		s.weights[i] = clamp(w, s.params.MinWeight, s.params.MaxWeight)
	}
}

// ResetHistory clears the anti-repetition ring; called on game restart.
// Weights survive so adaptation carries across restarts.
func (s *Scheduler) ResetHistory() {
	s.history = s.history[:0]
}

// draw samples from the weight distribution, skipping excluded indices.
// A zero total falls back to a uniform pick over the allowed indices.
func (s *Scheduler) draw(exclude map[int]struct{}) int {
	total := 0.0
	for i, w := range s.weights {
		if _, skip := exclude[i]; skip {
			continue
		}
		total += w
	}
	if total <= 0 {
		return s.uniformAllowed(exclude)
	}
	r := s.rnd.Float64() * total
	acc := 0.0
	last := -1
	for i, w := range s.weights {
		if _, skip := exclude[i]; skip {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}

func (s *Scheduler) uniformAllowed(exclude map[int]struct{}) int {
	allowed := make([]int, 0, len(s.weights))
	for i := range s.weights {
		if _, skip := exclude[i]; skip {
			continue
		}
		allowed = append(allowed, i)
	}
	if len(allowed) == 0 {
		return s.rnd.Intn(len(s.weights))
	}
	return allowed[s.rnd.Intn(len(allowed))]
}

// forbidden returns the history tail as an exclusion set, following the
// same pool-size rules as tooRecent. It never covers the whole pool.
func (s *Scheduler) forbidden() map[int]struct{} {
	pool := len(s.weights)
	if pool <= 1 || len(s.history) == 0 {
		return nil
	}
	avoid := 2
	if pool <= 2 {
		avoid = 1
	}
	if avoid > len(s.history) {
		avoid = len(s.history)
	}
	out := make(map[int]struct{}, avoid)
	for i := 0; i < avoid; i++ {
		out[s.history[len(s.history)-1-i]] = struct{}{}
	}
	if len(out) >= pool {
		return nil
	}
	return out
}

// tooRecent reports whether idx matches the forbidden tail of the
// history. A pool of one never forbids; a pool of two only forbids the
// immediate repeat.
func (s *Scheduler) tooRecent(idx int) bool {
	pool := len(s.weights)
	if pool <= 1 || len(s.history) == 0 {
		return false
	}
	avoid := 2
	if pool <= 2 {
		avoid = 1
	}
	if avoid > len(s.history) {
		avoid = len(s.history)
	}
	for i := 0; i < avoid; i++ {
		if s.history[len(s.history)-1-i] == idx {
			return true
		}
	}
	return false
}

func (s *Scheduler) push(idx int) {
	s.history = append(s.history, idx)
	if limit := s.params.History; limit > 0 && len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
