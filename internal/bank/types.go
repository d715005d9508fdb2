package bank

import (
	"fmt"
	"strings"
)

// Type discriminates question buckets.
type Type int

const (
	Single Type = iota
	Multiple
	TrueFalse
)

// typeCount is the number of buckets.
const typeCount = 3

// OptionSlots is the number of answer option columns carried per question.
const OptionSlots = 8

// Types lists the buckets in lookup priority order.
var Types = [typeCount]Type{Single, Multiple, TrueFalse}

func (t Type) String() string {
	switch t {
	case Single:
		return "single-choice"
	case Multiple:
		return "multiple-choice"
	case TrueFalse:
		return "true-false"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseType maps a canonical type name back to its Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single-choice", "single":
		return Single, nil
	case "multiple-choice", "multiple":
		return Multiple, nil
	case "true-false", "truefalse":
		return TrueFalse, nil
	default:
		return 0, fmt.Errorf("unknown question type %q", name)
	}
}

func (t Type) valid() bool {
	return t >= Single && t <= TrueFalse
}

// Question is one row of the bank.
type Question struct {
	Type  Type
	Index int
	// Text is the normalized question text used as the lookup key.
	Text           string
	Options        [OptionSlots]string
	Answer         string
	Classification [3]string
	// Row is the 1-based source row number.
	Row int
}

// Ref addresses a question slot.
type Ref struct {
	Type  Type
	Index int
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Type, r.Index)
}

// Candidate is one entry of the approximate-match pool.
type Candidate struct {
	Text string
	Type Type
}

// Stats summarises a load.
type Stats struct {
	Rows       int
	Loaded     int
	PerType    [typeCount]int
	Duplicates int
	EmptyText  int
	// UnknownTypeRows holds source row numbers dropped for an unrecognized
	// type label.
	UnknownTypeRows []int
}
