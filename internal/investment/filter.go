package investment

import "strings"

// FilterByMonth keeps the records whose date text starts with targetMonth.
//
// The match is a plain string prefix, not a calendar comparison: a record
// dated "15.01.2024" never matches "2024-01". Callers must hand over ISO-like
// dates.
func (c *Calculator) FilterByMonth(records []Record, targetMonth string) []Record {
	log := c.sink("filter_transactions")

	filtered := make([]Record, 0, len(records))
	for i, r := range records {
		if r.Date == "" {
			log.WithField("index", i).Warn("transaction without date skipped")
			continue
		}

		if strings.HasPrefix(r.Date, targetMonth) {
			filtered = append(filtered, r)
		}
	}

	log.WithField("month", targetMonth).
		Infof("filtered %d of %d transactions", len(filtered), len(records))
	return filtered
}
