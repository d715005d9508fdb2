package bank

import "examtally/internal/textutil"

// Builder assembles a Bank in code, mainly for tests and previews.
type Builder struct {
	bank       *Bank
	policy     DuplicatePolicy
	normalizer textutil.Normalizer
	row        int
	err        error
}

// NewBuilder returns a Builder using the overwrite duplicate policy.
func NewBuilder() *Builder {
	return &Builder{bank: newBank(), policy: DuplicateOverwrite, row: 1}
}

// WithDuplicatePolicy sets how repeated text is indexed.
func (bl *Builder) WithDuplicatePolicy(p DuplicatePolicy) *Builder {
	bl.policy = p
	return bl
}

// WithNormalizer sets the normalizer applied to added text.
func (bl *Builder) WithNormalizer(n textutil.Normalizer) *Builder {
	bl.normalizer = n
	return bl
}

// Add appends a question of type t. Text is normalized.
func (bl *Builder) Add(t Type, text string, options ...string) *Builder {
	return bl.AddQuestion(Question{Type: t, Text: text}, options...)
}

// AddQuestion appends q after normalizing its text. Index and Row are
// assigned by the builder.
func (bl *Builder) AddQuestion(q Question, options ...string) *Builder {
	if bl.err != nil {
		return bl
	}
	bl.row++
	bl.bank.stats.Rows++
	q.Row = bl.row
	q.Text = bl.normalizer.Normalize(q.Text)
	copy(q.Options[:], options)
	if !q.Type.valid() {
		bl.bank.stats.UnknownTypeRows = append(bl.bank.stats.UnknownTypeRows, q.Row)
		return bl
	}
	_, bl.err = bl.bank.add(q, bl.policy)
	return bl
}

// Bank returns the assembled bank or the first error encountered.
func (bl *Builder) Bank() (*Bank, error) {
	if bl.err != nil {
		return nil, bl.err
	}
	return bl.bank, nil
}

// MustBank is Bank for fixtures known to be valid.
func (bl *Builder) MustBank() *Bank {
	b, err := bl.Bank()
	if err != nil {
		panic(err)
	}
	return b
}
