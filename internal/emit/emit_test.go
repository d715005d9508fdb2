package emit_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"examtally/internal/aggregate"
	"examtally/internal/bank"
	"examtally/internal/config"
	"examtally/internal/emit"
	"examtally/internal/reconcile"
	"examtally/internal/transcript"
)

func sampleTable(t *testing.T) aggregate.Table {
	t.Helper()
	b := bank.NewBuilder().
		AddQuestion(bank.Question{Type: bank.Single, Text: "What is 2+2?", Answer: "B", Classification: [3]string{"数学", "算术", "加法"}}, "3", "4").
		AddQuestion(bank.Question{Type: bank.TrueFalse, Text: "Water is wet", Answer: "正确"}, "正确", "错误").
		MustBank()

	alice := reconcile.NewScores(b)
	alice.Set(bank.Ref{Type: bank.Single, Index: 0}, 2)
	bob := reconcile.NewScores(b)
	bob.Set(bank.Ref{Type: bank.Single, Index: 0}, 0)
	bob.Set(bank.Ref{Type: bank.TrueFalse, Index: 0}, 1.5)

	return aggregate.Build(b, []*transcript.Result{
		{Source: "alice.docx", StudentName: "Alice", TotalScore: 2, Scores: alice},
		{Source: "bob.docx", StudentName: "Bob", TotalScore: 1.5, Scores: bob},
	})
}

func writeOptions(format string) emit.Options {
	return emit.Options{Format: format, Language: "zh", Overwrite: config.OverwriteAlways, RunID: "run-1"}
}

func assertNoLeftovers(t *testing.T, dir, keep string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != keep {
			t.Fatalf("unexpected leftover file %q", e.Name())
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "analysis.xlsx")
	if err := emit.Write(context.Background(), sampleTable(t), dest, writeOptions(config.FormatXLSX)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	assertNoLeftovers(t, dir, "analysis.xlsx")

	f, err := excelize.OpenFile(dest)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	header := rows[0]
	if len(header) != 17 || header[0] != "题目类型" || header[2] != "答案选项A" || header[14] != "Alice/2.0" || header[15] != "Bob/1.5" || header[16] != "得分率" {
		t.Fatalf("unexpected header %q", header)
	}
	single := rows[1]
	if single[0] != "单选题" || single[1] != "What is 2+2?" || single[3] != "4" || single[11] != "数学" {
		t.Fatalf("unexpected single row %q", single)
	}
	if single[14] != "2" || single[15] != "0" || single[16] != "50%" {
		t.Fatalf("unexpected score cells %q", single[14:])
	}
	tf := rows[2]
	if tf[0] != "判断题" || tf[2] != "正确" || tf[3] != "错误" || tf[14] != "" || tf[15] != "1.5" || tf[16] != "50%" {
		t.Fatalf("unexpected true/false row %q", tf)
	}

	styleID, err := f.GetCellStyle("Sheet1", "P3")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if style.Alignment == nil || style.Alignment.Horizontal != "center" || style.Alignment.Vertical != "center" {
		t.Fatalf("expected centered cells, got %+v", style.Alignment)
	}
}

func TestWriteCSVEnglish(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "analysis.csv")
	opts := writeOptions(config.FormatCSV)
	opts.Language = "en-GB"
	if err := emit.Write(context.Background(), sampleTable(t), dest, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "\ufeffType,Question,Option A") {
		t.Fatalf("unexpected csv start %q", content[:40])
	}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "Alice/2.0,Bob/1.5,Score rate") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "true-false,Water is wet,正确,错误") || !strings.HasSuffix(lines[2], ",,1.5,50%") {
		t.Fatalf("unexpected true/false line %q", lines[2])
	}
}

func TestWriteSQLite(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "analysis.db")
	if err := emit.Write(context.Background(), sampleTable(t), dest, writeOptions(config.FormatSQLite)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	db, err := sql.Open("sqlite", dest)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var runID string
	var transcripts, questions int
	if err := db.QueryRow("SELECT id, transcript_count, question_count FROM runs").Scan(&runID, &transcripts, &questions); err != nil {
		t.Fatalf("query runs: %v", err)
	}
	if runID != "run-1" || transcripts != 2 || questions != 2 {
		t.Fatalf("unexpected run row %s %d %d", runID, transcripts, questions)
	}

	var scores int
	if err := db.QueryRow("SELECT COUNT(*) FROM scores WHERE run_id = ?", runID).Scan(&scores); err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if scores != 3 {
		t.Fatalf("expected 3 recorded scores, got %d", scores)
	}

	var percent, label string
	if err := db.QueryRow(`SELECT q.percent, t.label FROM scores s
		JOIN questions q ON q.run_id = s.run_id AND q.position = s.question_position
		JOIN transcripts t ON t.run_id = s.run_id AND t.position = s.transcript_position
		WHERE q.type = 'true-false'`).Scan(&percent, &label); err != nil {
		t.Fatalf("join query: %v", err)
	}
	if percent != "50%" || label != "Bob/1.5" {
		t.Fatalf("unexpected join result %q %q", percent, label)
	}
}

func TestWriteOverwritePolicies(t *testing.T) {
	tests := []struct {
		name      string
		overwrite string
		confirmer emit.Confirmer
		replaced  bool
	}{
		{"never", config.OverwriteNever, nil, false},
		{"ask without confirmer", config.OverwriteAsk, nil, false},
		{"ask declined", config.OverwriteAsk, emit.ConfirmFunc(func(string) (bool, error) { return false, nil }), false},
		{"ask accepted", config.OverwriteAsk, emit.ConfirmFunc(func(string) (bool, error) { return true, nil }), true},
		{"always", config.OverwriteAlways, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			dest := filepath.Join(dir, "analysis.csv")
			if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
				t.Fatal(err)
			}
			opts := writeOptions(config.FormatCSV)
			opts.Overwrite = tt.overwrite
			opts.Confirmer = tt.confirmer

			err := emit.Write(context.Background(), sampleTable(t), dest, opts)
			data, readErr := os.ReadFile(dest)
			if readErr != nil {
				t.Fatal(readErr)
			}
			if tt.replaced {
				if err != nil {
					t.Fatalf("Write: %v", err)
				}
				if string(data) == "old" {
					t.Fatal("expected destination to be replaced")
				}
			} else {
				if !errors.Is(err, emit.ErrDeclined) {
					t.Fatalf("expected ErrDeclined, got %v", err)
				}
				if string(data) != "old" {
					t.Fatalf("declined write modified destination: %q", data)
				}
			}
			assertNoLeftovers(t, dir, "analysis.csv")
		})
	}
}

func TestWriteConfirmerError(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "analysis.csv")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("tty closed")
	opts := writeOptions(config.FormatCSV)
	opts.Overwrite = config.OverwriteAsk
	opts.Confirmer = emit.ConfirmFunc(func(string) (bool, error) { return false, boom })
	if err := emit.Write(context.Background(), sampleTable(t), dest, opts); !errors.Is(err, boom) {
		t.Fatalf("expected confirmer error, got %v", err)
	}
}

func TestWritePermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := emit.Write(context.Background(), sampleTable(t), filepath.Join(dir, "analysis.xlsx"), writeOptions(config.FormatXLSX))
	if !errors.Is(err, emit.ErrPermission) {
		t.Fatalf("expected ErrPermission, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("ErrPermission should also match fs.ErrPermission: %v", err)
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "analysis.ods")
	err := emit.Write(context.Background(), sampleTable(t), dest, writeOptions("ods"))
	if !errors.Is(err, emit.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLabelsFor(t *testing.T) {
	tests := []struct {
		pref string
		want string
	}{
		{"zh", "题目类型"},
		{"zh-CN", "题目类型"},
		{"en", "Type"},
		{"en-GB", "Type"},
		{"fr", "题目类型"},
		{"", "题目类型"},
	}
	for _, tt := range tests {
		if got := emit.LabelsFor(tt.pref).Type; got != tt.want {
			t.Errorf("LabelsFor(%q).Type = %q, want %q", tt.pref, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	if err := emit.Preview(&buf, sampleTable(t), emit.LabelsFor("en"), 8); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Alice/2.0", "Bob/1.5", "single-choice", "50%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "What is 2+2?") {
		t.Fatalf("expected question text to be truncated:\n%s", out)
	}
}

func TestTerminalConfirmer(t *testing.T) {
	var out bytes.Buffer
	c := &emit.TerminalConfirmer{In: strings.NewReader("y\n"), Out: &out}
	if ok, _ := c.Confirm("x.xlsx"); ok {
		t.Fatal("non-terminal input should decline")
	}
	if out.Len() != 0 {
		t.Fatal("non-terminal input should not prompt")
	}

	c.Terminal = true
	if ok, err := c.Confirm("x.xlsx"); err != nil || !ok {
		t.Fatalf("expected acceptance, got %v %v", ok, err)
	}
	if !strings.Contains(out.String(), "x.xlsx") {
		t.Fatalf("expected prompt to name the file, got %q", out.String())
	}

	c.In = strings.NewReader("\n")
	if ok, _ := c.Confirm("x.xlsx"); ok {
		t.Fatal("empty answer should decline")
	}
}
