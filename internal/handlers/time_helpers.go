package handlers

import (
	"time"

	"github.com/slotline/slotline-api/internal/models"
	"github.com/slotline/slotline-api/internal/timezone"
)

func locationFromTenant(tenant *models.Tenant) *time.Location {
	if tenant == nil {
		return timezone.Location("")
	}
	return timezone.Location(tenant.Timezone)
}

func parseDateInTenant(tenant *models.Tenant, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromTenant(tenant),
	)
}

// Sentinels for open-ended range filters.
var (
	rangeMin = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeMax = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
)

// parseRange reads optional RFC3339 bounds, defaulting to an unbounded
// range.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, to := rangeMin, rangeMax
	var err error

	if fromStr != "" {
		if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
			return from, to, err
		}
	}
	if toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}
