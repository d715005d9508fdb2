package bank

import "fmt"

// Bank is the loaded question bank.
type Bank struct {
	buckets [typeCount][]Question
	index   [typeCount]map[string]int
	// keys holds distinct indexed texts per bucket in first-seen order.
	keys  [typeCount][]string
	stats Stats
}

func newBank() *Bank {
	b := &Bank{}
	for i := range b.index {
		b.index[i] = make(map[string]int)
	}
	return b
}

// Len returns the number of questions in the bucket for t.
func (b *Bank) Len(t Type) int {
	if b == nil || !t.valid() {
		return 0
	}
	return len(b.buckets[t])
}

// Total returns the number of questions across all buckets.
func (b *Bank) Total() int {
	n := 0
	for _, t := range Types {
		n += b.Len(t)
	}
	return n
}

// Questions returns a copy of the bucket for t in source order.
func (b *Bank) Questions(t Type) []Question {
	if b == nil || !t.valid() {
		return nil
	}
	return append([]Question(nil), b.buckets[t]...)
}

// Question returns the question at ref.
func (b *Bank) Question(ref Ref) (Question, bool) {
	if b == nil || !ref.Type.valid() || ref.Index < 0 || ref.Index >= len(b.buckets[ref.Type]) {
		return Question{}, false
	}
	return b.buckets[ref.Type][ref.Index], true
}

// Lookup resolves normalized text to a slot, consulting buckets in
// priority order.
func (b *Bank) Lookup(text string) (Ref, bool) {
	if b == nil {
		return Ref{}, false
	}
	for _, t := range Types {
		if idx, ok := b.index[t][text]; ok {
			return Ref{Type: t, Index: idx}, true
		}
	}
	return Ref{}, false
}

// LookupType resolves text within a single bucket.
func (b *Bank) LookupType(t Type, text string) (Ref, bool) {
	if b == nil || !t.valid() {
		return Ref{}, false
	}
	idx, ok := b.index[t][text]
	if !ok {
		return Ref{}, false
	}
	return Ref{Type: t, Index: idx}, true
}

// Candidates returns the approximate-match pool: buckets in priority order,
// distinct texts in first-seen order within each bucket. Text present in two
// buckets appears once per bucket.
func (b *Bank) Candidates() []Candidate {
	if b == nil {
		return nil
	}
	n := 0
	for _, t := range Types {
		n += len(b.keys[t])
	}
	out := make([]Candidate, 0, n)
	for _, t := range Types {
		for _, text := range b.keys[t] {
			out = append(out, Candidate{Text: text, Type: t})
		}
	}
	return out
}

// Stats returns the load summary.
func (b *Bank) Stats() Stats {
	if b == nil {
		return Stats{}
	}
	s := b.stats
	s.UnknownTypeRows = append([]int(nil), b.stats.UnknownTypeRows...)
	return s
}

// add appends q to its bucket and indexes it under policy. The returned
// bool reports whether q.Text was already indexed in that bucket.
func (b *Bank) add(q Question, policy DuplicatePolicy) (bool, error) {
	t := q.Type
	q.Index = len(b.buckets[t])
	if q.Text == "" {
		b.buckets[t] = append(b.buckets[t], q)
		b.stats.EmptyText++
		b.stats.PerType[t]++
		b.stats.Loaded++
		return false, nil
	}

	prev, dup := b.index[t][q.Text]
	if dup && policy == DuplicateReject {
		return true, fmt.Errorf("%w: %q in %s (rows %d and %d)",
			ErrDuplicateQuestion, q.Text, t, b.buckets[t][prev].Row, q.Row)
	}

	b.buckets[t] = append(b.buckets[t], q)
	b.stats.PerType[t]++
	b.stats.Loaded++
	switch {
	case !dup:
		b.index[t][q.Text] = q.Index
		b.keys[t] = append(b.keys[t], q.Text)
	case policy == DuplicateOverwrite:
		b.index[t][q.Text] = q.Index
	}
	if dup {
		b.stats.Duplicates++
	}
	return dup, nil
}
