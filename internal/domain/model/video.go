package model

// VideoMatch is the best-effort result of a video search: the most-viewed
// embeddable candidate for a query, with the usable segment defaulted to the
// full duration.
type VideoMatch struct {
	ID               string `json:"id"`
	ProviderID       string `json:"provider_id"`
	VideoProviderID  string `json:"video_provider_id"`
	Title            string `json:"title"`
	Thumbnail        string `json:"thumbnail"`
	URL              string `json:"url"`
	Views            int64  `json:"views"`
	DurationSeconds  int    `json:"duration_seconds"`
	StartTimeSeconds int    `json:"start_time_seconds"`
	EndTimeSeconds   int    `json:"end_time_seconds"`
}
