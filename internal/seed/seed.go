package seed

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// Load reads seed URLs from r, one per line.
// Lines are trimmed; blank lines and lines starting with '#' are skipped.
// Every remaining line must parse as an absolute http(s) URL.
func Load(r io.Reader) ([]string, error) {
	var seeds []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u, err := url.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("invalid seed URL on line %d: %w", lineNo, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("invalid seed URL on line %d: %q is not an absolute http(s) URL", lineNo, line)
		}

		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed list: %w", err)
	}

	return seeds, nil
}

// LoadFile reads seed URLs from the file at path.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided seed list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open seed list: %w", err)
	}
	defer f.Close()

	return Load(f)
}
