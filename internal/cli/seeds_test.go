package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/scrape/internal/engine"
)

func runSeedsOn(t *testing.T, content string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	seedsCmd.SetOut(&out)
	defer seedsCmd.SetOut(nil)

	err := runSeeds(seedsCmd, []string{path})
	return out.String(), err
}

func TestRunSeeds(t *testing.T) {
	out, err := runSeedsOn(t, "example.com\nhttp://\n# comment\n")
	if err != nil {
		t.Fatalf("runSeeds failed: %v", err)
	}
	if !strings.Contains(out, "https://example.com") || !strings.Contains(out, "1 of 2 seeds usable") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunSeeds_NoneValid(t *testing.T) {
	_, err := runSeedsOn(t, "http://\n")
	if !errors.Is(err, engine.ErrEmptySeedList) {
		t.Errorf("expected EMPTY_SEED_LIST, got %v", err)
	}

	_, err = runSeedsOn(t, "\n# nothing\n")
	if !errors.Is(err, engine.ErrEmptySeedList) {
		t.Errorf("expected EMPTY_SEED_LIST for empty file, got %v", err)
	}
}
