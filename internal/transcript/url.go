package transcript

import (
	"fmt"
	"strings"
)

// ExtractVideoID pulls the video id out of a youtube.com/watch or youtu.be
// URL. Anything that does not look like a URL is treated as a bare id.
func ExtractVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty video url")
	}
	switch {
	case strings.Contains(input, "youtube.com/watch?v="):
		id := strings.SplitN(input, "watch?v=", 2)[1]
		id = strings.SplitN(id, "&", 2)[0]
		if id == "" {
			return "", fmt.Errorf("no video id in url: %s", input)
		}
		return id, nil
	case strings.Contains(input, "youtu.be/"):
		id := strings.SplitN(input, "youtu.be/", 2)[1]
		id = strings.SplitN(id, "?", 2)[0]
		id = strings.Trim(id, "/")
		if id == "" {
			return "", fmt.Errorf("no video id in url: %s", input)
		}
		return id, nil
	case strings.Contains(input, "/") || strings.Contains(input, " "):
		return "", fmt.Errorf("not a recognized youtube url: %s", input)
	default:
		return input, nil
	}
}
