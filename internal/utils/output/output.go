// Package output persists crawl results.
package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/law-makers/scrape/pkg/models"
)

// ErrNoData is returned when there is nothing to save
var ErrNoData = errors.New("no data to save")

// Save picks the format from the file extension (.csv or .json)
func Save(records []models.Record, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return SaveCSV(records, path)
	case ".json":
		return SaveJSON(records, path)
	default:
		return fmt.Errorf("unsupported output format %q (use .csv or .json)", filepath.Ext(path))
	}
}
