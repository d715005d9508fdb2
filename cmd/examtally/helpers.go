package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"examtally/internal/bank"
	"examtally/internal/config"
	"examtally/internal/reconcile"
	"examtally/internal/textutil"
	"examtally/internal/transcript"
)

// resolveBankPath prefers an explicit --bank value over the config.
func resolveBankPath(cfg *config.Config, flag string) (string, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return cfg.Paths.Bank, nil
	}
	path, err := config.ExpandPath(flag)
	if err != nil {
		return "", fmt.Errorf("resolve bank path: %w", err)
	}
	return path, nil
}

func loadBank(cfg *config.Config, path string, logger *slog.Logger) (*bank.Bank, error) {
	b, err := bank.LoadFile(path, cfg.Bank.Sheet, bank.OptionsFromConfig(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	return b, nil
}

// newParser wires the engine and transcript parser for b.
func newParser(cfg *config.Config, b *bank.Bank, logger *slog.Logger) (*transcript.Parser, *reconcile.Engine, error) {
	markers, err := transcript.MarkersFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	engine := reconcile.NewEngine(b, reconcile.OptionsFromConfig(cfg, logger))
	parser := transcript.NewParser(transcript.Options{
		Markers:    markers,
		Normalizer: textutil.Normalizer{FoldWidth: cfg.Transcript.FoldWidth},
		Logger:     logger,
	}, engine)
	return parser, engine, nil
}

// matchView is the printable form of a reconcile.Match.
type matchView struct {
	Fragment string   `json:"fragment"`
	Kind     string   `json:"kind"`
	Ratio    float64  `json:"ratio"`
	Question string   `json:"question,omitempty"`
	Ref      string   `json:"ref,omitempty"`
	Score    *float64 `json:"score,omitempty"`
}

func newMatchView(m reconcile.Match) matchView {
	v := matchView{Fragment: m.Fragment, Kind: m.Kind.String()}
	if m.Matched() {
		v.Ratio = m.Ratio
		v.Question = m.Candidate
		v.Ref = m.Ref.String()
	}
	return v
}

func (v matchView) row() []string {
	ratio := ""
	if v.Ref != "" {
		ratio = strconv.FormatFloat(v.Ratio, 'f', 3, 64)
	}
	return []string{v.Fragment, v.Kind, ratio, v.Question, v.Ref}
}

var matchHeaders = []string{"Fragment", "Kind", "Ratio", "Question", "Ref"}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
