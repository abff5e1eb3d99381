package transcript

import (
	"fmt"
	"strings"
	"testing"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:01.000 --> 00:00:04.000 align:start position:0%
the quick

00:00:04.000 --> 00:00:07.000
the quick brown

00:00:07.000 --> 00:00:10.000
the quick brown fox
`

func TestClean_RollUpDeduplication(t *testing.T) {
	t.Parallel()

	got := Clean(sampleVTT)
	want := "the quick brown fox"
	if got != want {
		t.Fatalf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_HeadersAndNotesDropped(t *testing.T) {
	t.Parallel()

	raw := "WEBVTT\nKind: captions\nLanguage: en\nNOTE confidence scores\n\n00:00:00.000 --> 00:00:02.000\nhello world\n"
	got := Clean(raw)
	if strings.Contains(got, "WEBVTT") || strings.Contains(got, "Kind") || strings.Contains(got, "confidence") {
		t.Fatalf("headers leaked into output: %q", got)
	}
	if !strings.Contains(got, "hello world") {
		t.Fatalf("caption text missing from output: %q", got)
	}
}

func TestClean_MarkupAndPositioningStripped(t *testing.T) {
	t.Parallel()

	raw := "00:00:00.000 --> 00:00:02.000\n<c.colorCCCCCC>styled</c> text align:start position:50%\n"
	got := Clean(raw)
	if strings.Contains(got, "<") || strings.Contains(got, "align:") {
		t.Fatalf("markup survived: %q", got)
	}
	if !strings.Contains(got, "styled text") {
		t.Fatalf("expected cleaned text, got %q", got)
	}
}

func TestClean_MarkerSpacing(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	// Cues every 60s over 10 minutes; markers must appear at >=180s spacing.
	for i := 0; i <= 10; i++ {
		fmt.Fprintf(&b, "00:%02d:00.000 --> 00:%02d:30.000\nline %d\n\n", i, i, i)
	}
	got := Clean(b.String())

	// No marker at the very start; the first one lands once 180s have passed.
	wantMarkers := []string{">00:03:00", ">00:06:00", ">00:09:00"}
	for _, m := range wantMarkers {
		if !strings.Contains(got, m) {
			t.Fatalf("missing marker %q in %q", m, got)
		}
	}
	if strings.Count(got, ">00:") != len(wantMarkers) {
		t.Fatalf("expected %d markers, got %d in %q", len(wantMarkers), strings.Count(got, ">00:"), got)
	}
}

func TestClean_Idempotent(t *testing.T) {
	t.Parallel()

	once := Clean(sampleVTT)
	twice := Clean(once)
	if once != twice {
		t.Fatalf("Clean is not idempotent:\n once=%q\ntwice=%q", once, twice)
	}
}

func TestClean_MarkerBetweenRollUpLines(t *testing.T) {
	t.Parallel()

	raw := "00:00:01.000 --> 00:00:02.000\nthe quick\n\n00:03:30.000 --> 00:03:31.000\nthe quick brown\n"
	got := Clean(raw)
	want := ">00:03:30 the quick brown"
	if got != want {
		t.Fatalf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_Empty(t *testing.T) {
	t.Parallel()

	if got := Clean(""); got != "" {
		t.Fatalf("Clean(\"\") = %q", got)
	}
}

func TestParseSeconds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"00:00:01.000", 1},
		{"00:03:00.500", 180.5},
		{"01:00:00", 3600},
		{"02:30", 150},
		{"garbage", 0},
	}
	for _, tc := range cases {
		if got := parseSeconds(tc.in); got != tc.want {
			t.Errorf("parseSeconds(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
