package model

// Video is a catalog row for an indexed video. ChunkCount and ChunkSize
// record the result of the last successful indexing run and drive stale
// chunk cleanup when a re-index shrinks the chunk sequence.
type Video struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ChunkCount int    `json:"chunk_count"`
	ChunkSize  int    `json:"chunk_size"`
	Ctime      int64  `json:"ctime"`
	Mtime      int64  `json:"mtime"`
}
