package util

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var rgxDataImage = regexp.MustCompile(`^data:image/(png|jpeg|jpg);base64,`)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

// IsImageRef reports whether value is an acceptable image reference:
// either a well-formed URL or an embedded data:image payload.
func IsImageRef(value string) bool {
	if strings.HasPrefix(value, "data:image/") {
		return rgxDataImage.MatchString(value)
	}
	return IsURL(value)
}

// UploadFileName builds a unique, timestamped filename for a stored upload,
// keeping the original extension.
func UploadFileName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d%s", now.UnixNano(), ext)
}

// TimeOfDay buckets a timestamp into the context label the priority
// predictor expects.
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 6:
		return "night"
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}
