package records

import (
	"sort"

	"github.com/atcnagpur/contentadmin/internal/models"
)

// SortByVisibility returns a copy of list with visible records first, each
// group ordered by ascending id. Equal keys keep their input order.
func SortByVisibility(list []models.Record) []models.Record {
	sorted := make([]models.Record, len(list))
	copy(sorted, list)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Visible != b.Visible {
			return a.Visible
		}
		return a.ID < b.ID
	})

	return sorted
}

func IndexOf(list []models.Record, id int64) int {
	for idx, rec := range list {
		if rec.ID == id {
			return idx
		}
	}
	return -1
}

func CountVisible(list []models.Record) int {
	n := 0
	for _, rec := range list {
		if rec.Visible {
			n++
		}
	}
	return n
}
