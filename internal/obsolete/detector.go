package obsolete

import (
	"regexp"
	"strings"
)

// DefaultPatterns match the trailer `git cherry-pick -x` writes.
var DefaultPatterns = []string{
	`\(cherry picked from commit ([0-9a-f]{7,40})\)`,
}

// Detector finds the commits a commit was rewritten from by matching its
// message against regex patterns. The first capture group of each pattern
// is the precursor's hash or hash prefix.
type Detector struct {
	patterns []*regexp.Regexp
}

// NewDetector creates a new Detector from a list of regex pattern strings.
// Patterns are compiled as case-insensitive. Returns an error if any pattern fails to compile.
func NewDetector(patterns []string) (*Detector, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Add case-insensitive flag if not already present
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &Detector{patterns: compiled}, nil
}

// Precursors returns the hashes referenced by message, in order of
// appearance per pattern and without duplicates.
func (d *Detector) Precursors(message string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, re := range d.patterns {
		for _, m := range re.FindAllStringSubmatch(message, -1) {
			if len(m) < 2 || m[1] == "" {
				continue
			}
			h := strings.ToLower(m[1])
			if seen[h] {
				continue
			}
			seen[h] = true
			found = append(found, h)
		}
	}
	return found
}

// Enabled reports whether the detector has any pattern.
func (d *Detector) Enabled() bool {
	return d != nil && len(d.patterns) > 0
}
