package enums

import "fmt"

// AspectRatio identifies the rendered shape of a creative.
type AspectRatio string

const (
	AspectRatioSquare    AspectRatio = "1:1"
	AspectRatioLandscape AspectRatio = "16:9"
	AspectRatioPortrait  AspectRatio = "9:16"
)

var validAspectRatios = []AspectRatio{
	AspectRatioSquare,
	AspectRatioLandscape,
	AspectRatioPortrait,
}

// AllAspectRatios lists every ratio a creative generation batch produces,
// in the order the batch renders them.
func AllAspectRatios() []AspectRatio {
	return []AspectRatio{AspectRatioLandscape, AspectRatioPortrait, AspectRatioSquare}
}

// String returns the literal ratio.
func (a AspectRatio) String() string {
	return string(a)
}

// IsValid reports whether the ratio is known.
func (a AspectRatio) IsValid() bool {
	for _, candidate := range validAspectRatios {
		if candidate == a {
			return true
		}
	}
	return false
}

// Dimensions returns the pixel box rendered for the ratio.
func (a AspectRatio) Dimensions() (width, height int) {
	switch a {
	case AspectRatioLandscape:
		return 1920, 1080
	case AspectRatioPortrait:
		return 1080, 1920
	default:
		return 1080, 1080
	}
}

// ParseAspectRatio converts raw input into an AspectRatio.
func ParseAspectRatio(value string) (AspectRatio, error) {
	for _, candidate := range validAspectRatios {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aspect ratio %q", value)
}
