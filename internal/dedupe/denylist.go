package dedupe

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Denylist is a set of perceptual hashes excluded from grouping, typically
// hashes of blank or black frames that collide across unrelated files.
type Denylist map[string]struct{}

// Contains reports whether the hash is denylisted.
func (d Denylist) Contains(hash string) bool {
	_, ok := d[hash]
	return ok
}

// LoadDenylist reads a newline-delimited hash file into a Denylist. Blank
// lines and lines starting with '#' are ignored.
func LoadDenylist(path string) (Denylist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open denylist: %w", err)
	}
	defer file.Close()

	denylist := make(Denylist)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		denylist[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read denylist: %w", err)
	}
	return denylist, nil
}
