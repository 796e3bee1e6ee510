package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/avasilev/taskpulse/internal/deadline"
)

// decodeExtraction turns a raw completion into RawExtraction. Models wrap the
// object in explanatory prose or code fences despite instructions, so the
// first top-level {...} span is located first; if that span is not valid JSON
// it goes through jsonrepair before the final decode.
func decodeExtraction(completion string) (*deadline.RawExtraction, error) {
	span, err := extractJSON(completion)
	if err != nil {
		return nil, &ExtractionError{Stage: "decode", Err: err}
	}

	if !json.Valid([]byte(span)) {
		repaired, rerr := jsonrepair.JSONRepair(span)
		if rerr != nil {
			return nil, &ExtractionError{Stage: "decode", Err: fmt.Errorf("repair json: %w", rerr)}
		}
		span = repaired
	}

	var raw deadline.RawExtraction
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, &ExtractionError{Stage: "decode", Err: fmt.Errorf("unmarshal extraction: %w", err)}
	}

	return &raw, nil
}

// extractJSON returns the first top-level {...} span in s, tracking brace
// depth and skipping braces inside string literals.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", errors.New("no JSON object found in completion")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", errors.New("unterminated JSON object in completion")
}
