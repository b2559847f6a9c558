package crawler

import "github.com/law-makers/scrape/pkg/models"

// Dedupe keeps the first record for each distinct Content, preserving order
func Dedupe(records []models.Record) []models.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.Content]; dup {
			continue
		}
		seen[r.Content] = struct{}{}
		out = append(out, r)
	}
	return out
}
