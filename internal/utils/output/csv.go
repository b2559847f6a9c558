package output

import (
	"encoding/csv"
	"os"

	"github.com/law-makers/scrape/pkg/models"
)

var csvHeader = []string{"url", "content", "attributes"}

// SaveCSV writes records to a CSV file with a url,content,attributes header.
// Multi-line content is quoted, not split.
func SaveCSV(records []models.Record, filepath string) error {
	if len(records) == 0 {
		return ErrNoData
	}

	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write([]string{r.URL, r.Content, r.Attributes}); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
