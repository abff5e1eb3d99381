package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models wrap output in markdown code fences or, for lesson content, in an
// accidental {"content": ...} JSON envelope. Every parse site goes through
// these helpers so the stripping contract lives in one place.

var (
	openFenceRe  = regexp.MustCompile("(?i)^```[a-z]*[ \t]*\r?\n?")
	closeFenceRe = regexp.MustCompile("\r?\n?[ \t]*```$")
)

// Unwrap strips a leading/trailing markdown code fence and surrounding
// whitespace from model output.
func Unwrap(raw string) string {
	s := strings.TrimSpace(raw)
	s = openFenceRe.ReplaceAllString(s, "")
	s = closeFenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// UnwrapContent additionally unpacks the {"content": "..."} framing some
// models emit for plain-text answers. Unparsable framing is returned as is.
func UnwrapContent(raw string) string {
	s := Unwrap(raw)
	if !strings.HasPrefix(s, `{"content":`) {
		return s
	}
	var envelope struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(s), &envelope); err == nil && envelope.Content != "" {
		return envelope.Content
	}
	return s
}

// UnwrapJSON strips fences and unmarshals the result into v.
func UnwrapJSON(raw string, v any) error {
	return json.Unmarshal([]byte(Unwrap(raw)), v)
}
