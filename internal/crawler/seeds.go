package crawler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/law-makers/scrape/internal/engine"
)

// ReadSeeds reads one URL per line. Blank lines and lines starting with '#'
// are ignored. Lines are not normalized here.
func ReadSeeds(r io.Reader) ([]string, error) {
	var seeds []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed list: %w", err)
	}

	if len(seeds) == 0 {
		return nil, engine.NewEngineError(engine.ErrCodeEmptySeedList, "seed list contains no URLs", nil)
	}
	return seeds, nil
}

// LoadSeedFile reads seeds from the file at path
func LoadSeedFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seeds, err := ReadSeeds(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seeds, nil
}
