package reconcile_test

import (
	"math"
	"strings"
	"testing"

	"examtally/internal/bank"
	"examtally/internal/reconcile"
)

func newEngine(t *testing.T, b *bank.Bank, mode reconcile.ReverseMode) *reconcile.Engine {
	t.Helper()
	return reconcile.NewEngine(b, reconcile.Options{Threshold: reconcile.DefaultThreshold, Reverse: mode})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExactMatchBeatsApproximate(t *testing.T) {
	b := bank.NewBuilder().
		Add(bank.Single, "What is 2+2?").
		Add(bank.Single, "What is 2+2?!").
		MustBank()
	e := newEngine(t, b, reconcile.ReverseAlways)

	m := e.Resolve("What is 2+2?!")
	if m.Kind != reconcile.Exact || m.Ref.Index != 1 || m.Ratio != 1 {
		t.Fatalf("expected exact match on index 1, got %+v", m)
	}
}

func TestThresholdIsStrict(t *testing.T) {
	target := strings.Repeat("a", 13) + strings.Repeat("c", 13)
	b := bank.NewBuilder().Add(bank.Single, target).MustBank()
	e := newEngine(t, b, reconcile.ReverseAlways)

	atThreshold := strings.Repeat("a", 13) + strings.Repeat("b", 13)
	if m := e.Resolve(atThreshold); m.Matched() {
		t.Fatalf("ratio of exactly 0.5 must not match, got %+v", m)
	}

	above := strings.Repeat("a", 13) + strings.Repeat("b", 12)
	m := e.Resolve(above)
	if m.Kind != reconcile.Forward || m.Candidate != target {
		t.Fatalf("expected forward match above threshold, got %+v", m)
	}
	if !almostEqual(m.Ratio, 26.0/51.0) {
		t.Fatalf("unexpected ratio %v", m.Ratio)
	}
}

func TestReversePassRecoversSuffixAlignedFragment(t *testing.T) {
	b := bank.NewBuilder().Add(bank.Multiple, "bbaccdbc").MustBank()
	for _, mode := range []reconcile.ReverseMode{reconcile.ReverseAlways, reconcile.ReverseFallback} {
		t.Run(string(mode), func(t *testing.T) {
			m := newEngine(t, b, mode).Resolve("bcbccb")
			if m.Kind != reconcile.Reverse {
				t.Fatalf("expected reverse match, got %+v", m)
			}
			if m.Ref != (bank.Ref{Type: bank.Multiple, Index: 0}) {
				t.Fatalf("unexpected ref %v", m.Ref)
			}
			if !almostEqual(m.Ratio, 10.0/14.0) {
				t.Fatalf("unexpected ratio %v", m.Ratio)
			}
		})
	}
}

func TestReverseModes(t *testing.T) {
	b := bank.NewBuilder().Add(bank.Single, "aacaba").MustBank()

	always := newEngine(t, b, reconcile.ReverseAlways).Resolve("caabcba")
	if always.Kind != reconcile.Reverse || !almostEqual(always.Ratio, 10.0/13.0) {
		t.Fatalf("always: expected reverse improvement, got %+v", always)
	}

	fallback := newEngine(t, b, reconcile.ReverseFallback).Resolve("caabcba")
	if fallback.Kind != reconcile.Forward || !almostEqual(fallback.Ratio, 8.0/13.0) {
		t.Fatalf("fallback: expected forward result to stand, got %+v", fallback)
	}
}

func TestTiesKeepEarliestCandidate(t *testing.T) {
	b := bank.NewBuilder().
		Add(bank.Multiple, "abcz").
		Add(bank.Single, "abcy").
		MustBank()
	m := newEngine(t, b, reconcile.ReverseAlways).Resolve("abcx")
	if m.Kind != reconcile.Forward || m.Candidate != "abcy" || m.Ref.Type != bank.Single {
		t.Fatalf("expected single-choice candidate to win the tie, got %+v", m)
	}
}

func TestApproximateMatchResolvesByPriority(t *testing.T) {
	b := bank.NewBuilder().
		Add(bank.TrueFalse, "Shared q").
		Add(bank.Multiple, "Shared q").
		MustBank()
	m := newEngine(t, b, reconcile.ReverseAlways).Resolve("Shared qq")
	if m.Kind != reconcile.Forward || m.Ref.Type != bank.Multiple {
		t.Fatalf("expected multiple-choice slot, got %+v", m)
	}
}

func TestRecordWritesOnlyMatchedSlots(t *testing.T) {
	b := bank.NewBuilder().
		Add(bank.Single, "What is 2+2?").
		Add(bank.Single, "What is 3+3?").
		Add(bank.TrueFalse, "Water is wet").
		MustBank()
	e := newEngine(t, b, reconcile.ReverseAlways)
	scores := reconcile.NewScores(b)

	if m := e.Record(scores, "What si 2+2?", 2); m.Kind != reconcile.Forward || m.Ref.Index != 0 {
		t.Fatalf("unexpected match %+v", m)
	}
	if m := e.Record(scores, "Water is wet", 0); m.Kind != reconcile.Exact {
		t.Fatalf("unexpected match %+v", m)
	}
	if m := e.Record(scores, "zzzz", 5); m.Matched() {
		t.Fatalf("expected no match, got %+v", m)
	}

	if got := scores.Get(bank.Ref{Type: bank.Single, Index: 0}); !got.Set || got.Value != 2 {
		t.Fatalf("unexpected single[0] %+v", got)
	}
	if got := scores.Get(bank.Ref{Type: bank.Single, Index: 1}); got.Set {
		t.Fatalf("single[1] should be unset, got %+v", got)
	}
	if got := scores.Get(bank.Ref{Type: bank.TrueFalse, Index: 0}); !got.Set || got.Value != 0 {
		t.Fatalf("a zero score is still recorded, got %+v", got)
	}
	if scores.Filled() != 2 {
		t.Fatalf("expected 2 filled slots, got %d", scores.Filled())
	}

	stats := e.Stats()
	if stats.Exact != 1 || stats.Forward != 1 || stats.None != 1 || stats.Total() != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestScoresBounds(t *testing.T) {
	b := bank.NewBuilder().Add(bank.Single, "q").MustBank()
	scores := reconcile.NewScores(b)
	if scores.Set(bank.Ref{Type: bank.Single, Index: 3}, 1) {
		t.Fatal("out of range set should fail")
	}
	if scores.Len(bank.Single) != 1 || scores.Len(bank.Multiple) != 0 {
		t.Fatalf("unexpected lengths")
	}
}
