package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// markerInterval is the minimum spacing between emitted time markers.
// Dense cue timestamps collapse to at most one marker per interval.
const markerInterval = 180

var (
	markupTagRe   = regexp.MustCompile(`<[^>]+>`)
	positioningRe = regexp.MustCompile(`align:.*?%`)
)

// Clean normalizes line-oriented timed-caption data (WebVTT and friends) into
// one flat string: headers dropped, cue timestamps reduced to sparse
// ">hh:mm:ss" markers, markup and positioning stripped, roll-up duplication
// collapsed. The result contains no newlines, so running Clean on its own
// output is a no-op.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	var output []string
	lastText := ""
	lastTextIdx := -1
	lastMarkerSeconds := -1.0

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if line == "" ||
			strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") ||
			strings.HasPrefix(line, "NOTE") {
			continue
		}

		if strings.Contains(line, "-->") {
			startStr := strings.TrimSpace(strings.SplitN(line, "-->", 2)[0])
			seconds := parseSeconds(startStr)
			if seconds-lastMarkerSeconds >= markerInterval {
				// ">hh:mm:ss" rather than a bracketed label to save tokens.
				short, _, _ := strings.Cut(startStr, ".")
				output = append(output, ">"+short)
				lastMarkerSeconds = seconds
			}
			continue
		}

		text := strings.TrimSpace(markupTagRe.ReplaceAllString(line, ""))
		text = strings.TrimSpace(positioningRe.ReplaceAllString(text, ""))
		if text == "" {
			continue
		}

		// Roll-up captions repeat or extend the prior line: drop a line the
		// previous one already contains; replace the previous one when the
		// new line extends it.
		if strings.Contains(lastText, text) && lastText != "" {
			continue
		}
		if lastText != "" && strings.Contains(text, lastText) && lastTextIdx >= 0 {
			output = append(output[:lastTextIdx], output[lastTextIdx+1:]...)
		}

		output = append(output, text)
		lastText = text
		lastTextIdx = len(output) - 1
	}

	return strings.Join(output, " ")
}

// parseSeconds converts "[hh:]mm:ss[.mmm]" to total seconds, 0 on malformed
// input.
func parseSeconds(ts string) float64 {
	parts := strings.Split(ts, ":")
	if len(parts) < 2 {
		return 0
	}
	var h, m int
	var s float64
	if len(parts) == 3 {
		h, _ = strconv.Atoi(parts[0])
		m, _ = strconv.Atoi(parts[1])
		s, _ = strconv.ParseFloat(parts[2], 64)
	} else {
		m, _ = strconv.Atoi(parts[0])
		s, _ = strconv.ParseFloat(parts[1], 64)
	}
	return float64(h)*3600 + float64(m)*60 + s
}
