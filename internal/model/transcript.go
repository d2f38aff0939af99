package model

// CaptionEntry is one time-stamped caption from a video transcript.
// Start and Duration are in seconds.
type CaptionEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}
