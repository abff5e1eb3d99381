package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

const searchBody = `{"items":[
  {"id":{"videoId":"aaa"}},
  {"id":{"videoId":"bbb"}},
  {"id":{"videoId":"ccc"}}
]}`

const videosBody = `{"items":[
  {"id":"aaa","snippet":{"title":"First","thumbnails":{"high":{"url":"http://img/a"}}},
   "statistics":{"viewCount":"500"},"contentDetails":{"duration":"PT5M"}},
  {"id":"bbb","snippet":{"title":"Popular","thumbnails":{"high":{"url":"http://img/b"}}},
   "statistics":{"viewCount":"10000"},"contentDetails":{"duration":"PT10M12S"}},
  {"id":"ccc","snippet":{"title":"Last","thumbnails":{"high":{"url":"http://img/c"}}},
   "statistics":{"viewCount":"300"},"contentDetails":{"duration":"PT1H2M3S"}}
]}`

func newFixtureServer(t *testing.T, searchResp, videosResp string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			fmt.Fprint(w, searchResp)
		case "/videos":
			fmt.Fprint(w, videosResp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFindVideo_PicksHighestViewCount(t *testing.T) {
	t.Parallel()

	srv := newFixtureServer(t, searchBody, videosBody)
	defer srv.Close()

	c := NewClient("test-key", srv.URL, 5, nopLogger())
	got, err := c.FindVideo(context.Background(), "bread baking")
	if err != nil {
		t.Fatalf("FindVideo: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a match")
	}
	if got.ID != "bbb" || got.Views != 10000 {
		t.Fatalf("expected most-viewed video bbb, got %s (%d views)", got.ID, got.Views)
	}
	if got.DurationSeconds != 612 {
		t.Fatalf("expected duration 612s, got %d", got.DurationSeconds)
	}
	if got.StartTimeSeconds != 0 || got.EndTimeSeconds != 612 {
		t.Fatalf("expected segment [0,612], got [%d,%d]", got.StartTimeSeconds, got.EndTimeSeconds)
	}
	if got.URL != "https://www.youtube.com/watch?v=bbb" {
		t.Fatalf("unexpected watch URL %q", got.URL)
	}
}

func TestFindVideo_ViewCountTieKeepsFirstSeen(t *testing.T) {
	t.Parallel()

	tied := `{"items":[
  {"id":"aaa","snippet":{"title":"A"},"statistics":{"viewCount":"100"},"contentDetails":{"duration":"PT1M"}},
  {"id":"bbb","snippet":{"title":"B"},"statistics":{"viewCount":"100"},"contentDetails":{"duration":"PT1M"}}
]}`
	srv := newFixtureServer(t, searchBody, tied)
	defer srv.Close()

	c := NewClient("test-key", srv.URL, 5, nopLogger())
	got, err := c.FindVideo(context.Background(), "q")
	if err != nil {
		t.Fatalf("FindVideo: %v", err)
	}
	if got == nil || got.ID != "aaa" {
		t.Fatalf("tie must keep relevance order, got %+v", got)
	}
}

func TestFindVideo_EmptySearchIsAbsent(t *testing.T) {
	t.Parallel()

	srv := newFixtureServer(t, `{"items":[]}`, videosBody)
	defer srv.Close()

	c := NewClient("test-key", srv.URL, 5, nopLogger())
	got, err := c.FindVideo(context.Background(), "q")
	if err != nil {
		t.Fatalf("FindVideo: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent match, got %+v", got)
	}
}

func TestFindVideo_UpstreamErrorIsAbsentNotFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, 5, nopLogger())
	got, err := c.FindVideo(context.Background(), "q")
	if err != nil {
		t.Fatalf("expected absent match on upstream error, got err %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil match, got %+v", got)
	}
}

func TestISO8601ToSeconds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"PT10M12S", 612},
		{"PT1H", 3600},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT0S", 0},
		{"bogus", 0},
	}
	for _, tc := range cases {
		if got := iso8601ToSeconds(tc.in); got != tc.want {
			t.Errorf("iso8601ToSeconds(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
