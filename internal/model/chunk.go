package model

// Chunk merges a fixed number of consecutive caption entries into one
// retrievable unit with a combined time range.
type Chunk struct {
	Text           string  `json:"text"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	StartFormatted string  `json:"start_formatted"`
	EndFormatted   string  `json:"end_formatted"`
}

// ChunkMetadata is what gets stored alongside each chunk vector.
type ChunkMetadata struct {
	VideoID        string  `json:"video_id"`
	Text           string  `json:"text"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	StartFormatted string  `json:"start_formatted"`
	EndFormatted   string  `json:"end_formatted"`
}

type SearchResult struct {
	VideoID        string  `json:"video_id"`
	Text           string  `json:"text"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	StartFormatted string  `json:"start_formatted"`
	EndFormatted   string  `json:"end_formatted"`
	Score          float32 `json:"score"`
}
