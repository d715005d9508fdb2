package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"examtally/internal/config"
	"examtally/internal/testsupport"
)

type cliTestEnv struct {
	cfg            *config.Config
	configPath     string
	transcriptsDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("EXAMTALLY_BANK", "")

	testsupport.WriteBankXLSX(t, cfg.Paths.Bank,
		testsupport.BankRow{Type: "单选题", Text: "What is 2+2?", Options: []string{"3", "4"}, Answer: "B"},
		testsupport.BankRow{Type: "判断题", Text: "Water is wet", Answer: "正确"},
		testsupport.BankRow{Type: "简答题", Text: "Explain gravity"},
	)
	dir := filepath.Join(base, "transcripts")
	testsupport.WriteDocx(t, filepath.Join(dir, "a.docx"),
		"考生名称：A",
		"1. What is 2+2?",
		"该题得分是: 5分",
	)
	testsupport.WriteDocx(t, filepath.Join(dir, "b.docx"),
		"考生名称：B",
		"1. What si 2+2?",
		"该题得分是: 0分",
		"2. Water is wet",
		"该题得分是: 1分",
	)

	configPath := filepath.Join(base, "examtally.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, transcriptsDir: dir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nbank = %q\noutput = %q\nlog_dir = %q\n\n[output]\noverwrite = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.Bank,
		cfg.Paths.Output,
		cfg.Paths.LogDir,
		cfg.Output.Overwrite,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
