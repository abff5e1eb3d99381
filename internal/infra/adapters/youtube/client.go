package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
)

var _ adapter.VideoFinder = (*Client)(nil)

// Client implements adapter.VideoFinder against the YouTube Data API v3.
// All failures degrade to an absent match; enrichment is best-effort and the
// caller must never see an upstream fault.
type Client struct {
	apiKey     string
	base       string // e.g. https://www.googleapis.com/youtube/v3
	maxResults int
	httpc      *http.Client
	log        *zerolog.Logger
}

func NewClient(apiKey, base string, maxResults int, log *zerolog.Logger) *Client {
	if base == "" {
		base = "https://www.googleapis.com/youtube/v3"
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		apiKey:     apiKey,
		base:       strings.TrimRight(base, "/"),
		maxResults: maxResults,
		httpc:      &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c *Client) FindVideo(ctx context.Context, query string) (*model.VideoMatch, error) {
	ids, err := c.search(ctx, query)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("youtube search failed")
		return nil, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var details videosResponse
	params := url.Values{
		"part": {"statistics,snippet,contentDetails"},
		"id":   {strings.Join(ids, ",")},
		"key":  {c.apiKey},
	}
	if err := c.getJSON(ctx, "/videos", params, &details); err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("youtube details lookup failed")
		return nil, nil
	}

	// Highest view count wins; ties keep the first-seen (relevance order).
	best := -1
	var bestViews int64 = -1
	for i, item := range details.Items {
		views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		if views > bestViews {
			best, bestViews = i, views
		}
	}
	if best < 0 {
		return nil, nil
	}

	chosen := details.Items[best]
	duration := iso8601ToSeconds(chosen.ContentDetails.Duration)
	return &model.VideoMatch{
		ID:               chosen.ID,
		ProviderID:       chosen.ID,
		VideoProviderID:  "Youtube",
		Title:            chosen.Snippet.Title,
		Thumbnail:        chosen.Snippet.Thumbnails.High.URL,
		URL:              "https://www.youtube.com/watch?v=" + chosen.ID,
		Views:            bestViews,
		DurationSeconds:  duration,
		StartTimeSeconds: 0,
		EndTimeSeconds:   duration,
	}, nil
}

func (c *Client) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"part":            {"snippet"},
		"q":               {query},
		"type":            {"video"},
		"videoEmbeddable": {"true"},
		"maxResults":      {strconv.Itoa(c.maxResults)},
		"key":             {c.apiKey},
	}
	var resp searchResponse
	if err := c.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("youtube http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// iso8601ToSeconds converts e.g. "PT10M12S" to 612.
func iso8601ToSeconds(iso string) int {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	return h*3600 + min*60 + s
}
