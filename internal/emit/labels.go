package emit

import (
	"golang.org/x/text/language"

	"examtally/internal/aggregate"
	"examtally/internal/bank"
)

// Labels are the localized header and type names.
type Labels struct {
	Tag            language.Tag
	Type           string
	Text           string
	Options        [bank.OptionSlots]string
	Answer         string
	Classification [3]string
	Rate           string
	TypeNames      [len(bank.Types)]string
}

var chineseLabels = Labels{
	Tag:            language.Chinese,
	Type:           "题目类型",
	Text:           "题目内容",
	Options:        [bank.OptionSlots]string{"答案选项A", "答案选项B", "答案选项C", "答案选项D", "答案选项E", "答案选项F", "答案选项G", "答案选项H"},
	Answer:         "正确答案",
	Classification: [3]string{"一级分类", "二级分类", "三级分类"},
	Rate:           "得分率",
	TypeNames:      [len(bank.Types)]string{"单选题", "多选题", "判断题"},
}

var englishLabels = Labels{
	Tag:            language.English,
	Type:           "Type",
	Text:           "Question",
	Options:        [bank.OptionSlots]string{"Option A", "Option B", "Option C", "Option D", "Option E", "Option F", "Option G", "Option H"},
	Answer:         "Answer",
	Classification: [3]string{"Category L1", "Category L2", "Category L3"},
	Rate:           "Score rate",
	TypeNames:      [len(bank.Types)]string{"single-choice", "multiple-choice", "true-false"},
}

// The first entry is the fallback for unmatched preferences.
var (
	supportedLabels = []Labels{chineseLabels, englishLabels}
	labelMatcher    = language.NewMatcher([]language.Tag{language.Chinese, language.English})
)

// LabelsFor picks the best supported header language for the given
// preferences, e.g. "zh", "en-GB", or an Accept-Language style list.
func LabelsFor(preferences ...string) Labels {
	_, idx := language.MatchStrings(labelMatcher, preferences...)
	if idx < 0 || idx >= len(supportedLabels) {
		idx = 0
	}
	return supportedLabels[idx]
}

// TypeName returns the localized name of t.
func (l Labels) TypeName(t bank.Type) string {
	if int(t) < 0 || int(t) >= len(l.TypeNames) {
		return t.String()
	}
	return l.TypeNames[t]
}

// fixedColumns is the number of question columns before the transcripts.
const fixedColumns = 2 + bank.OptionSlots + 1 + 3

// Header returns the full header row for table.
func (l Labels) Header(table aggregate.Table) []string {
	header := make([]string, 0, fixedColumns+len(table.Columns)+1)
	header = append(header, l.Type, l.Text)
	header = append(header, l.Options[:]...)
	header = append(header, l.Answer)
	header = append(header, l.Classification[:]...)
	for _, col := range table.Columns {
		header = append(header, col.Label())
	}
	return append(header, l.Rate)
}

// Cells returns the values of one data row: strings for question fields,
// float64 for recorded scores, nil for unset scores, and the rate string.
func (l Labels) Cells(row aggregate.Row) []any {
	q := row.Question
	out := make([]any, 0, fixedColumns+len(row.Cells)+1)
	out = append(out, l.TypeName(q.Type), q.Text)
	for _, opt := range q.Options {
		out = append(out, opt)
	}
	out = append(out, q.Answer)
	for _, c := range q.Classification {
		out = append(out, c)
	}
	for _, cell := range row.Cells {
		if cell.Set {
			out = append(out, cell.Value)
		} else {
			out = append(out, nil)
		}
	}
	return append(out, row.Percent)
}
