package service

import "fmt"

// ChunkID derives the stable vector id for a chunk: the ordinal is the
// chunk's zero-based position in its video's chunk sequence, so re-indexing
// the same video with the same chunk size targets the same ids.
func ChunkID(videoID string, ordinal int) string {
	return fmt.Sprintf("%s_chunk_%d", videoID, ordinal)
}
