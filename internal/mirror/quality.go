package mirror

import (
	"fmt"
	"strings"
)

// Quality selects the far clip distance of reflection cameras.
type Quality int

const (
	QualityDefault Quality = iota
	QualityHigh
	QualityMedium
	QualityLow
	QualityVeryLow
)

var qualityNames = map[Quality]string{
	QualityDefault: "default",
	QualityHigh:    "high",
	QualityMedium:  "medium",
	QualityLow:     "low",
	QualityVeryLow: "verylow",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

// FarClip returns the reflection camera far plane for the tier.
func (q Quality) FarClip() float32 {
	switch q {
	case QualityHigh:
		return 500
	case QualityLow:
		return 50
	case QualityVeryLow:
		return 10
	default:
		return 100
	}
}

// RenderPath returns the path reflection cameras use. VeryLow forces the
// vertex-lit path; every other tier follows the viewer.
func (q Quality) RenderPath(viewer RenderPath) RenderPath {
	if q == QualityVeryLow {
		return RenderPathVertexLit
	}
	return viewer
}

// ParseQuality accepts the tier names case-insensitively; "very_low" and
// "very-low" are accepted for verylow. An empty string is the default tier.
func ParseQuality(s string) (Quality, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	if norm == "" {
		return QualityDefault, nil
	}
	for q, name := range qualityNames {
		if name == norm {
			return q, nil
		}
	}
	return QualityDefault, fmt.Errorf("%w: unknown quality %q", ErrInvalidSettings, s)
}

// AntiAlias is the MSAA sample count of reflection targets.
type AntiAlias int

const (
	AntiAliasX1 AntiAlias = 1
	AntiAliasX2 AntiAlias = 2
	AntiAliasX4 AntiAlias = 4
	AntiAliasX8 AntiAlias = 8
)

// Valid reports whether a is one of the supported sample counts.
func (a AntiAlias) Valid() bool {
	switch a {
	case AntiAliasX1, AntiAliasX2, AntiAliasX4, AntiAliasX8:
		return true
	}
	return false
}

// RenderPath is a hint to the host about which lighting path to use.
type RenderPath int

const (
	RenderPathForward RenderPath = iota
	RenderPathDeferred
	RenderPathVertexLit
)

func (p RenderPath) String() string {
	switch p {
	case RenderPathForward:
		return "forward"
	case RenderPathDeferred:
		return "deferred"
	case RenderPathVertexLit:
		return "vertexlit"
	default:
		return "unknown"
	}
}
