package dockerfile

import (
	"os"
	"regexp"
	"strings"
)

// Default markers used when a [Scanner] is created with [NewScanner] and no
// overrides.
var (
	DefaultMarkers    = []string{"$PIP_INSTALL"}
	DefaultSeparators = []string{"&&"}
)

// argRE matches a whitespace-preceded shell argument. Group 1 is the argument.
var argRE = regexp.MustCompile(`\s(\S+)`)

// Scanner extracts candidate package names from build-file text.
// The zero value has no markers and therefore finds nothing.
type Scanner struct {
	Markers    []string // Substrings that open an install section
	Separators []string // Substrings that close one
}

// NewScanner returns a Scanner for the given markers and separators, falling
// back to [DefaultMarkers] and [DefaultSeparators] when either is empty.
func NewScanner(markers, separators []string) *Scanner {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &Scanner{Markers: markers, Separators: separators}
}

// ScanFile reads path and returns the candidate names it contains.
func (s *Scanner) ScanFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Scan(string(data)), nil
}

// Scan returns candidate package names in order of appearance.
// The install-section state carries over from one line to the next.
func (s *Scanner) Scan(text string) []string {
	var names []string
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		rest := line
		for {
			if !inSection {
				i, marker := indexAny(rest, s.Markers)
				if i < 0 {
					break
				}
				inSection = true
				rest = rest[i+len(marker):]
				continue
			}

			j, sep := indexAny(rest, s.Separators)
			segment := rest
			if j >= 0 {
				segment = rest[:j]
			}
			names = append(names, s.harvest(segment)...)
			if j < 0 {
				break
			}
			inSection = false
			rest = rest[j+len(sep):]
		}
	}
	return names
}

func (s *Scanner) harvest(segment string) []string {
	var names []string
	for _, m := range argRE.FindAllStringSubmatch(segment, -1) {
		if arg := m[1]; isPackageArg(arg) && !s.isMarkerPart(arg) {
			names = append(names, arg)
		}
	}
	return names
}

func (s *Scanner) isMarkerPart(arg string) bool {
	for _, marker := range s.Markers {
		if strings.Contains(marker, arg) {
			return true
		}
	}
	return false
}

// isPackageArg reports whether arg starts with an ASCII letter and is not a
// key=value pair or a pinned requirement.
func isPackageArg(arg string) bool {
	c := arg[0]
	if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
		return false
	}
	return !strings.Contains(arg, "=")
}

// indexAny returns the earliest position of any needle in s and the needle
// found there. On ties the longest needle wins. Empty needles are ignored.
func indexAny(s string, needles []string) (int, string) {
	best, found := -1, ""
	for _, n := range needles {
		if n == "" {
			continue
		}
		i := strings.Index(s, n)
		if i < 0 {
			continue
		}
		if best < 0 || i < best || (i == best && len(n) > len(found)) {
			best, found = i, n
		}
	}
	return best, found
}
