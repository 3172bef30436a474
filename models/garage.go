package models

// LapTime is one entry of the personal lap-time log.
type LapTime struct {
	ID        string `json:"id"`
	Ms        int    `json:"ms"`
	Label     string `json:"label"` // MM:SS.mmm
	CreatedAt int64  `json:"createdAt"`
}

// Video is one entry of the personal video gallery. The binary lives in
// object storage under Key; URL is the public location.
type Video struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}
