package audio

import (
	"fmt"
	"regexp"
	"strings"
)

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)

// ValidateText checks that there is something to speak
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// ValidateLanguage checks a synthesizer language code such as "en" or "en-GB"
func ValidateLanguage(code string) error {
	if code == "" {
		return fmt.Errorf("language code cannot be empty")
	}
	if !languagePattern.MatchString(code) {
		return fmt.Errorf("invalid language code: %q", code)
	}
	return nil
}

// baseLanguage strips the region from a language code ("en-GB" -> "en")
func baseLanguage(code string) string {
	if i := strings.Index(code, "-"); i > 0 {
		return code[:i]
	}
	return code
}
