package output

import (
	"encoding/json"
	"os"

	"github.com/law-makers/scrape/pkg/models"
)

// SaveJSON writes records to filepath as an indented JSON array.
func SaveJSON(records []models.Record, filepath string) error {
	if len(records) == 0 {
		return ErrNoData
	}

	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, content, 0644)
}
