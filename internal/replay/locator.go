package replay

import "strings"

const xpathPrefix = "xpath="

// Locator is an element selector as recorded by the agent. Selectors carrying
// the "xpath=" prefix are path expressions anchored at the document root and
// are eligible for trim-based fallback; anything else (CSS, text selectors)
// is passed to the driver as-is.
type Locator struct {
	Raw   string
	XPath string
}

func ParseLocator(raw string) Locator {
	l := Locator{Raw: raw}
	if strings.HasPrefix(raw, xpathPrefix) {
		l.XPath = strings.TrimPrefix(raw, xpathPrefix)
	}
	return l
}

func (l Locator) IsXPath() bool {
	return l.XPath != ""
}

// Segments returns the ordered, non-empty path steps of an XPath locator.
// Positional indices stay attached to their step ("div[2]" is one segment).
func (l Locator) Segments() []string {
	parts := strings.Split(l.XPath, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// TrimmedSelector drops the first `drop` leading segments and re-anchors the
// remainder with a search-anywhere prefix, preserving segment order.
func TrimmedSelector(segments []string, drop int) string {
	return xpathPrefix + "//" + strings.Join(segments[drop:], "/")
}
