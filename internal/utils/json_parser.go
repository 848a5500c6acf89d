package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedBlock    = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.+?)\\s*```")
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	bareKey        = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
	errEmptyOutput = errors.New("empty model output")
)

// ParseAIJSON decodes the JSON a chat model produced into target. Models
// wrap JSON in markdown fences, add prose around it, or emit trailing commas
// and unquoted keys, so several candidate readings are tried in order.
func ParseAIJSON(input string, target any) error {
	input = strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if input == "" {
		return errEmptyOutput
	}

	var lastErr error
	for _, candidate := range jsonCandidates(input) {
		if candidate == "" {
			continue
		}
		if lastErr = json.Unmarshal([]byte(candidate), target); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("no JSON found in model output %q: %w", truncateString(input, 100), lastErr)
}

func jsonCandidates(input string) []string {
	fenced := ""
	if m := fencedBlock.FindStringSubmatch(input); len(m) > 1 {
		fenced = strings.TrimSpace(m[1])
	}
	embedded := firstBalanced(input)

	candidates := []string{input, fenced, embedded}
	for _, c := range []string{fenced, embedded, input} {
		if c != "" {
			candidates = append(candidates, repairJSON(c))
		}
	}
	return candidates
}

// firstBalanced returns the first complete {...} or [...] value in s.
func firstBalanced(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		if v := balancedFrom(s[i:]); v != "" {
			return v
		}
	}
	return ""
}

// balancedFrom scans a value starting at s[0], honouring string literals.
func balancedFrom(s string) string {
	open := s[0]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

// repairJSON fixes the mistakes models make most often.
func repairJSON(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = trailingComma.ReplaceAllString(s, "$1")
	s = bareKey.ReplaceAllString(s, `$1"$2"$3`)
	return singleToDoubleQuotes(s)
}

// singleToDoubleQuotes rewrites 'value' literals that start a JSON token.
// Apostrophes inside words are left alone.
func singleToDoubleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inDouble, inSingle, escaped := false, false, false
	var prev byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			if inSingle {
				inSingle = false
				ch = '"'
			} else if strings.IndexByte("{[:, ", prev) >= 0 || i == 0 {
				inSingle = true
				ch = '"'
			}
		}
		b.WriteByte(ch)
		if ch != ' ' {
			prev = ch
		} else if !inDouble && !inSingle {
			// keep the token boundary visible to the next quote
			prev = ' '
		}
	}
	return b.String()
}

// truncateString truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
