// Package input reads the JSON snapshot piped in by the host CLI and
// extracts the handful of fields the status line needs.
package input

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/buger/jsonparser"
	"golang.org/x/term"

	"github.com/himattm/contextline/internal/tier"
)

// DefaultContextWindow is used when context_window_size is absent.
const DefaultContextWindow = 200000

// MaxCount bounds every token count and window size read from the snapshot.
// Larger values saturate to it.
const MaxCount = math.MaxInt32

var errNotJSON = errors.New("input is not valid JSON")

var isTerminal = func(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// StatusInput holds the extracted fields of one snapshot.
type StatusInput struct {
	ModelName string

	// CurrentDir is only meaningful when HasCurrentDir is set.
	CurrentDir    string
	HasCurrentDir bool

	ContextWindowSize int
	UsageTokens       int

	// Cost is the raw decimal text of total_cost_usd. It is validated by
	// the cost builder, never formatted directly.
	Cost string
}

// Percent returns usage as a whole percentage of the window, clamped to
// [0,100]. A non-positive window yields 0.
func (s StatusInput) Percent() int {
	if s.ContextWindowSize <= 0 || s.UsageTokens <= 0 {
		return 0
	}
	if s.UsageTokens >= s.ContextWindowSize {
		return 100
	}
	usage, size := int64(s.UsageTokens), int64(s.ContextWindowSize)
	if usage > math.MaxInt64/100 {
		return tier.Clamp(int(usage / (size / 100)))
	}
	return tier.Clamp(int(usage * 100 / size))
}

// Read reads all of r. It fails when r is an interactive terminal or when
// nothing was piped in.
func Read(r io.Reader) ([]byte, error) {
	if f, ok := r.(*os.File); ok && isTerminal(f) {
		return nil, &InputError{Reason: "stdin is a terminal, pipe the JSON status snapshot in"}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputError{Reason: "failed to read stdin", Err: err}
	}
	if len(data) == 0 {
		return nil, &InputError{Reason: "stdin is empty"}
	}
	return data, nil
}

// Parse extracts a StatusInput from raw JSON. Missing or null fields at any
// depth fall back to defaults; only malformed JSON is an error.
func Parse(data []byte) (StatusInput, error) {
	if !json.Valid(data) {
		return StatusInput{}, &ParseError{Err: errNotJSON}
	}

	in := StatusInput{
		ModelName:         stringField(data, "model", "display_name"),
		ContextWindowSize: DefaultContextWindow,
		Cost:              "0",
	}

	if dir := stringField(data, "workspace", "current_dir"); dir != "" {
		in.CurrentDir = dir
		in.HasCurrentDir = true
	}

	if size, ok := intField(data, "context_window", "context_window_size"); ok {
		in.ContextWindowSize = size
	}

	for _, key := range []string{"input_tokens", "cache_creation_input_tokens", "cache_read_input_tokens"} {
		if n, ok := intField(data, "context_window", "current_usage", key); ok && n > 0 {
			in.UsageTokens = addSaturating(in.UsageTokens, n)
		}
	}

	value, dataType, _, err := jsonparser.Get(data, "cost", "total_cost_usd")
	if err == nil {
		switch dataType {
		case jsonparser.Number:
			in.Cost = string(value)
		case jsonparser.String:
			if s, err := jsonparser.ParseString(value); err == nil {
				in.Cost = s
			} else {
				in.Cost = ""
			}
		case jsonparser.Null:
		default:
			in.Cost = ""
		}
	}

	return in, nil
}

func stringField(data []byte, keys ...string) string {
	value, dataType, _, err := jsonparser.Get(data, keys...)
	if err != nil || dataType != jsonparser.String {
		return ""
	}
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return ""
	}
	return s
}

// intField reads an integer that may arrive as a JSON number or a numeric
// string. Fractions are truncated and magnitudes beyond MaxCount saturate.
// ok is false when the field is absent, null or not numeric.
func intField(data []byte, keys ...string) (int, bool) {
	value, dataType, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		return 0, false
	}

	var text string
	switch dataType {
	case jsonparser.Number:
		text = string(value)
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return 0, false
		}
		text = s
	default:
		return 0, false
	}

	// ParseFloat covers integers, fractions and exponents alike and reports
	// out-of-range input as ±Inf with ErrRange.
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) || (err == nil && math.IsInf(f, 0)) {
		return 0, false
	}
	switch {
	case f >= MaxCount:
		return MaxCount, true
	case f <= -MaxCount:
		return -MaxCount, true
	}
	return int(f), true
}

// addSaturating adds two non-negative counts, stopping at MaxCount.
func addSaturating(a, b int) int {
	if b > MaxCount-a {
		return MaxCount
	}
	return a + b
}
