package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Version is the current spellbee release
const Version = "0.3.0"

// ResultsTimeLayout is the timestamp layout used in results file names
const ResultsTimeLayout = "20060102150405"

// TempFileName creates a collision-free file name for a temporary audio artifact
// Format: prefix_<uuid hex>.ext
func TempFileName(prefix, ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp3"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, id, ext)
}

// Timestamp formats t the way results and archive names expect
func Timestamp(t time.Time) string {
	return t.Format(ResultsTimeLayout)
}
