package seed

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// TestLoad tests parsing of seed lists.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("trims whitespace and skips blanks and comments", func(t *testing.T) {
		t.Parallel()

		input := `
http://a.test

  http://b.test/page
# a comment
https://c.test
`
		seeds, err := Load(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"http://a.test", "http://b.test/page", "https://c.test"}
		if !reflect.DeepEqual(seeds, want) {
			t.Errorf("expected %v, got %v", want, seeds)
		}
	})

	t.Run("keeps duplicate seeds", func(t *testing.T) {
		t.Parallel()

		seeds, err := Load(strings.NewReader("http://a.test\nhttp://a.test\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seeds) != 2 {
			t.Errorf("expected duplicates to be kept, got %d seeds", len(seeds))
		}
	})

	t.Run("rejects relative URLs", func(t *testing.T) {
		t.Parallel()

		if _, err := Load(strings.NewReader("/just/a/path\n")); err == nil {
			t.Error("expected error for relative URL")
		}
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		t.Parallel()

		if _, err := Load(strings.NewReader("ftp://a.test\n")); err == nil {
			t.Error("expected error for ftp scheme")
		}
	})

	t.Run("empty input yields no seeds", func(t *testing.T) {
		t.Parallel()

		seeds, err := Load(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seeds) != 0 {
			t.Errorf("expected no seeds, got %v", seeds)
		}
	})
}

// TestLoadFile tests loading from a file on disk.
func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "urls.txt")
		if err := os.WriteFile(path, []byte("http://a.test\nhttp://b.test\n"), 0600); err != nil {
			t.Fatalf("failed to write seed list: %v", err)
		}

		seeds, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seeds) != 2 {
			t.Errorf("expected 2 seeds, got %d", len(seeds))
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
