package report

import (
	"sort"

	"github.com/lazyserp/CuraVie/internal/models"
)

// MaxRecent is the number of vaccinations and visits included in a report
const MaxRecent = 3

// Selection is the subset of a worker's history a report is built from
type Selection struct {
	Latest       *models.MedicalCheckup
	Vaccinations []models.Vaccination
	Visits       []models.MedicalVisit
}

// Aggregate picks the latest checkup and the most recent vaccinations and
// visits. Records without a usable date rank below every dated record, and
// records sharing a date keep their input order. The worker is not modified.
func Aggregate(w *models.Worker) Selection {
	if w == nil {
		return Selection{}
	}

	var sel Selection

	for i := range w.Checkups {
		c := &w.Checkups[i]
		// Strictly later only, so the first of equal dates wins
		if sel.Latest == nil || c.DateOfCheckup.After(sel.Latest.DateOfCheckup) {
			sel.Latest = c
		}
	}
	if sel.Latest != nil {
		latest := *sel.Latest
		sel.Latest = &latest
	}

	sel.Vaccinations = newestFirst(w.Vaccinations, func(v models.Vaccination) models.Date {
		return v.DateAdministered
	})
	sel.Visits = newestFirst(w.Visits, func(v models.MedicalVisit) models.Date {
		return v.VisitDate
	})

	return sel
}

// newestFirst returns at most MaxRecent records from a copy of records,
// ordered by date descending with a stable sort.
func newestFirst[T any](records []T, dateOf func(T) models.Date) []T {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateOf(sorted[i]).After(dateOf(sorted[j]))
	})
	if len(sorted) > MaxRecent {
		sorted = sorted[:MaxRecent]
	}
	return sorted
}
