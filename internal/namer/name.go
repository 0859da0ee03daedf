package namer

import (
	"fmt"
	"regexp"
	"strconv"
)

// leadingCount is the looser pattern used when scanning for the highest count
// and when reading the count back from the previous path.
var leadingCount = regexp.MustCompile(`^(\d+)\..*\.png`)

var wireName = regexp.MustCompile(`^(\d{6})\.(\d+)(?:\.(\d{2}))?\.png$`)

// Name is a parsed output filename: {base:06d}.{seed}[.{series:02d}].png
type Name struct {
	Base   int
	Seed   int64
	Series int
}

func (n Name) String() string {
	if n.Series > 0 {
		return fmt.Sprintf("%06d.%d.%02d.png", n.Base, n.Seed, n.Series)
	}
	return fmt.Sprintf("%06d.%d.png", n.Base, n.Seed)
}

// ParseName parses a file name (no directory) in the output wire format.
func ParseName(name string) (Name, bool) {
	m := wireName.FindStringSubmatch(name)
	if m == nil {
		return Name{}, false
	}
	base, err := strconv.Atoi(m[1])
	if err != nil {
		return Name{}, false
	}
	seed, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Name{}, false
	}
	var series int
	if m[3] != "" {
		series, _ = strconv.Atoi(m[3])
	}
	return Name{Base: base, Seed: seed, Series: series}, true
}

func parseCount(name string) (int, bool) {
	m := leadingCount.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
