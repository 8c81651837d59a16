package market

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/careerarchitect/career-architect/internal/profile"
)

// Jobs holds the listings of one search run. The collection lives with the
// caller only and is replaced wholesale on every new search.
type Jobs struct {
	Items []profile.JobOpportunity
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

// SortByFit orders listings by descending fit score, stable on ties.
func (j *Jobs) SortByFit() {
	sort.SliceStable(j.Items, func(a, b int) bool {
		return j.Items[a].FitScore > j.Items[b].FitScore
	})
}

// FilterByMinFit drops every listing below the given score and returns how
// many were removed. Order of the survivors is preserved.
func (j *Jobs) FilterByMinFit(minScore int) int {
	kept := j.Items[:0]
	for _, job := range j.Items {
		if job.FitScore >= minScore {
			kept = append(kept, job)
		}
	}
	removed := len(j.Items) - len(kept)
	j.Items = kept
	return removed
}

// ReportByCompany groups listings per company for display.
func (j *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		key := job.Company
		if key == "" {
			key = "Empresa não informada"
		}
		report[key] = append(report[key], map[string]string{
			"title":    job.Title,
			"location": job.Location,
			"fit":      fmt.Sprintf("%d%%", job.FitScore),
			"url":      job.URL,
		})
	}
	return report
}

// DumpToTmpFile writes the collection as indented JSON to a temp file and
// returns its path.
func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}
