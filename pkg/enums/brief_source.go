package enums

import "fmt"

// BriefSource records how a brief's content arrived.
type BriefSource string

const (
	BriefSourceText     BriefSource = "text"
	BriefSourceDocument BriefSource = "document"
)

var validBriefSources = []BriefSource{BriefSourceText, BriefSourceDocument}

// String returns the literal source.
func (b BriefSource) String() string {
	return string(b)
}

// IsValid reports whether the source is known.
func (b BriefSource) IsValid() bool {
	for _, candidate := range validBriefSources {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBriefSource converts raw input into a BriefSource.
func ParseBriefSource(value string) (BriefSource, error) {
	for _, candidate := range validBriefSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid brief source %q", value)
}
