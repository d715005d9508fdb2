package transcript

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"examtally/internal/config"
	"examtally/internal/textutil"
)

// ErrMalformedScore reports a score announcement whose value is not a number.
var ErrMalformedScore = errors.New("malformed score")

// State is the scanner's position in the question/score cycle.
type State int

const (
	AwaitingQuestion State = iota
	AwaitingScore
)

func (s State) String() string {
	if s == AwaitingScore {
		return "awaiting-score"
	}
	return "awaiting-question"
}

// Markers are the textual cues recognized in transcript units.
type Markers struct {
	Name     []string
	Score    []string
	Units    []string
	Question *regexp.Regexp
}

// DefaultMarkers mirrors the default configuration.
func DefaultMarkers() Markers {
	cfg := config.Default()
	m, err := MarkersFromConfig(&cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// MarkersFromConfig compiles the transcript section.
func MarkersFromConfig(cfg *config.Config) (Markers, error) {
	pattern, err := regexp.Compile(cfg.Transcript.QuestionPattern)
	if err != nil {
		return Markers{}, fmt.Errorf("compile question pattern: %w", err)
	}
	return Markers{
		Name:     append([]string(nil), cfg.Transcript.NameMarkers...),
		Score:    append([]string(nil), cfg.Transcript.ScoreMarkers...),
		Units:    append([]string(nil), cfg.Transcript.UnitLabels...),
		Question: pattern,
	}, nil
}

// Event describes what one unit contributed. A single unit may carry a
// name, open a question, and announce its score at once.
type Event struct {
	// NameSet is set when the unit carried a name marker followed by text
	// on the same line. Name may still be empty after trimming.
	NameSet  bool
	Name     string
	Question string
	// Scored is set when a score was attributed to Fragment.
	Scored   bool
	Fragment string
	Score    float64
	// Ignored is set when a score announcement arrived with no pending
	// question.
	Ignored bool
}

// Scanner is the two-state machine over transcript units. The only carried
// state is the pending question fragment.
type Scanner struct {
	markers    Markers
	normalizer textutil.Normalizer
	state      State
	pending    string
}

// NewScanner returns a Scanner in the AwaitingQuestion state.
func NewScanner(markers Markers, normalizer textutil.Normalizer) *Scanner {
	return &Scanner{markers: markers, normalizer: normalizer}
}

// State returns the current state.
func (s *Scanner) State() State { return s.state }

// Pending returns the fragment awaiting a score, if any.
func (s *Scanner) Pending() string { return s.pending }

// Feed consumes one unit. Checks run in order: name marker, question line,
// score marker.
func (s *Scanner) Feed(unit string) (Event, error) {
	var ev Event

	ev.Name, ev.NameSet = s.extractName(unit)

	if s.markers.Question != nil {
		if m := s.markers.Question.FindStringSubmatch(unit); m != nil && len(m) > 1 {
			s.pending = s.normalizer.Normalize(m[1])
			if s.pending != "" {
				s.state = AwaitingScore
				ev.Question = s.pending
			} else {
				s.state = AwaitingQuestion
			}
		}
	}

	rest, ok := s.afterScoreMarker(unit)
	if !ok {
		return ev, nil
	}
	if s.state != AwaitingScore {
		ev.Ignored = true
		return ev, nil
	}
	score, err := s.parseScore(rest)
	if err != nil {
		return ev, fmt.Errorf("%w: %q", ErrMalformedScore, unit)
	}
	ev.Scored = true
	ev.Fragment = s.pending
	ev.Score = score
	s.pending = ""
	s.state = AwaitingQuestion
	return ev, nil
}

// extractName returns the trimmed text after the first name marker up to the
// end of its line. A marker with nothing after it on the line does not count.
func (s *Scanner) extractName(unit string) (string, bool) {
	for _, marker := range s.markers.Name {
		idx := strings.Index(unit, marker)
		if idx < 0 {
			continue
		}
		rest := unit[idx+len(marker):]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		if rest != "" {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// afterScoreMarker returns the text between the first score marker and the
// next occurrence of the same marker.
func (s *Scanner) afterScoreMarker(unit string) (string, bool) {
	for _, marker := range s.markers.Score {
		idx := strings.Index(unit, marker)
		if idx < 0 {
			continue
		}
		rest := unit[idx+len(marker):]
		if next := strings.Index(rest, marker); next >= 0 {
			rest = rest[:next]
		}
		return rest, true
	}
	return "", false
}

func (s *Scanner) parseScore(rest string) (float64, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, errors.New("no score value")
	}
	token := fields[0]
	for _, label := range s.markers.Units {
		if label == "" {
			continue
		}
		if len(token) > len(label) && strings.EqualFold(token[len(token)-len(label):], label) {
			token = token[:len(token)-len(label)]
			break
		}
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("score %q is not finite", token)
	}
	return value, nil
}
