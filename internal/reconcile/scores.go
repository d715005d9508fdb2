package reconcile

import "examtally/internal/bank"

// Score is an optional per-question score.
type Score struct {
	Value float64
	Set   bool
}

// Scores holds one optional score per bank slot, bucketed like the bank.
type Scores struct {
	slots [len(bank.Types)][]Score
}

// NewScores returns an empty score set sized to b.
func NewScores(b *bank.Bank) *Scores {
	s := &Scores{}
	for _, t := range bank.Types {
		s.slots[t] = make([]Score, b.Len(t))
	}
	return s
}

// Set writes value into ref's slot. Out-of-range refs are ignored and
// reported as false.
func (s *Scores) Set(ref bank.Ref, value float64) bool {
	if s == nil || ref.Index < 0 || int(ref.Type) >= len(s.slots) || ref.Index >= len(s.slots[ref.Type]) {
		return false
	}
	s.slots[ref.Type][ref.Index] = Score{Value: value, Set: true}
	return true
}

// Get returns the score at ref.
func (s *Scores) Get(ref bank.Ref) Score {
	if s == nil || ref.Index < 0 || int(ref.Type) >= len(s.slots) || ref.Index >= len(s.slots[ref.Type]) {
		return Score{}
	}
	return s.slots[ref.Type][ref.Index]
}

// Len returns the slot count for t.
func (s *Scores) Len(t bank.Type) int {
	if s == nil || int(t) >= len(s.slots) {
		return 0
	}
	return len(s.slots[t])
}

// Filled counts slots holding a score.
func (s *Scores) Filled() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, bucket := range s.slots {
		for _, sc := range bucket {
			if sc.Set {
				n++
			}
		}
	}
	return n
}
