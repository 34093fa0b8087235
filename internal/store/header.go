package store

import (
	"strings"

	"github.com/pkg/errors"
)

// header maps logical field keys to column indexes. The mapping is built from
// the table's first row and a per-field set of accepted labels, so renamed or
// legacy sheet headers keep working.
type header struct {
	idx map[string]int
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func buildHeader(cells []string, aliases map[string][]string, required []string) (header, error) {
	byLabel := make(map[string]int, len(cells))
	for i, c := range cells {
		label := normalizeLabel(c)
		if label == "" {
			continue
		}
		if _, ok := byLabel[label]; !ok {
			byLabel[label] = i
		}
	}

	h := header{idx: make(map[string]int, len(aliases))}
	for field, labels := range aliases {
		for _, label := range labels {
			if i, ok := byLabel[normalizeLabel(label)]; ok {
				h.idx[field] = i
				break
			}
		}
	}

	var missing []string
	for _, field := range required {
		if _, ok := h.idx[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return header{}, errors.Errorf("header is missing required columns: %s", strings.Join(missing, ", "))
	}
	return h, nil
}

// get returns the cell for a field, or empty when the column is absent.
func (h header) get(row []string, field string) string {
	i, ok := h.idx[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// put writes a cell for a field into a row sized by size().
func (h header) put(row []string, field, value string) {
	if i, ok := h.idx[field]; ok && i < len(row) {
		row[i] = value
	}
}

// size returns the row width needed to cover every mapped column.
func (h header) size() int {
	max := 0
	for _, i := range h.idx {
		if i+1 > max {
			max = i + 1
		}
	}
	return max
}
