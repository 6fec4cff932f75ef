package services

import (
	"regexp"
	"strconv"
	"strings"

	"tripbazaar/models"
)

// Delta is a partial field→value mapping holding only the changed fields of
// a record. Keys are the records' JSON field names so a delta can be merged
// straight into a serialized record or translated to an UPDATE.
type Delta map[string]any

var (
	editAmountRe = regexp.MustCompile(`by\s+(\d+)|(\d+)`)
	editSetToRe  = regexp.MustCompile(`to\s+(\d+)`)
	editRatingRe = regexp.MustCompile(`to\s+([\d.]+)`)
	editAddRe    = regexp.MustCompile(`add\s+(\d+)`)
	editRemoveRe = regexp.MustCompile(`remove\s+(\d+)`)
)

// ParseEditCommand turns a free-text instruction into a field delta against
// one stored record. Independent rule groups each fire at most once; several
// groups may fire from a single command. An empty delta means the command
// was not understood and the caller must fail the request.
//
// Pure function over the record snapshot: deterministic, no I/O.
func ParseEditCommand(command string, original models.Record) Delta {
	cmd := strings.ToLower(command)
	changes := Delta{}

	parsePriceChange(cmd, original, changes)
	parseAvailabilityChange(cmd, original, changes)
	parseRatingChange(cmd, original, changes)

	switch original.Target() {
	case models.TargetFlight:
		parseFlightToggles(cmd, changes)
	case models.TargetBus:
		parseBusToggles(cmd, changes)
	}

	return changes
}

func parsePriceChange(cmd string, original models.Record, changes Delta) {
	field, current := original.PriceField()

	switch {
	case strings.Contains(cmd, "increase price") || strings.Contains(cmd, "raise price"):
		changes[field] = current + editAmount(cmd)
	case strings.Contains(cmd, "decrease price") ||
		strings.Contains(cmd, "reduce price") ||
		strings.Contains(cmd, "lower price"):
		next := current - editAmount(cmd)
		if next < 100 {
			next = 100
		}
		changes[field] = next
	case strings.Contains(cmd, "set price to") || strings.Contains(cmd, "change price to"):
		if m := editSetToRe.FindStringSubmatch(cmd); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				changes[field] = n
			}
		}
	}
}

// editAmount extracts the numeric amount of a relative price change,
// preferring "by N" over any bare number, defaulting to 1000.
func editAmount(cmd string) int {
	m := editAmountRe.FindStringSubmatch(cmd)
	if m == nil {
		return 1000
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1000
	}
	return n
}

func mentionsCapacity(cmd string) bool {
	return strings.Contains(cmd, "seat") ||
		strings.Contains(cmd, "room") ||
		strings.Contains(cmd, "spot")
}

func parseAvailabilityChange(cmd string, original models.Record, changes Delta) {
	field, current := original.AvailabilityField()

	switch {
	case strings.Contains(cmd, "add") && mentionsCapacity(cmd):
		amount := 5
		if m := editAddRe.FindStringSubmatch(cmd); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				amount = n
			}
		}
		changes[field] = current + amount
	case strings.Contains(cmd, "remove") && mentionsCapacity(cmd):
		amount := 5
		if m := editRemoveRe.FindStringSubmatch(cmd); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				amount = n
			}
		}
		next := current - amount
		if next < 0 {
			next = 0
		}
		changes[field] = next
	}
}

func parseRatingChange(cmd string, original models.Record, changes Delta) {
	if !strings.Contains(cmd, "set rating to") && !strings.Contains(cmd, "change rating to") {
		return
	}
	if _, hasRating := original.RatingValue(); !hasRating {
		return
	}
	m := editRatingRe.FindStringSubmatch(cmd)
	if m == nil {
		return
	}
	rating, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return
	}
	// Out-of-range ratings are silently ignored, not errors.
	if rating >= 0 && rating <= 5 {
		changes["rating"] = rating
	}
}

func parseFlightToggles(cmd string, changes Delta) {
	if strings.Contains(cmd, "include meal") || strings.Contains(cmd, "add meal") {
		changes["mealIncluded"] = true
	} else if strings.Contains(cmd, "remove meal") || strings.Contains(cmd, "exclude meal") {
		changes["mealIncluded"] = false
	}

	if strings.Contains(cmd, "upgrade to business") || strings.Contains(cmd, "change to business") {
		changes["classType"] = "business"
	} else if strings.Contains(cmd, "downgrade to economy") || strings.Contains(cmd, "change to economy") {
		changes["classType"] = "economy"
	}
}

func parseBusToggles(cmd string, changes Delta) {
	if strings.Contains(cmd, "change to sleeper") || strings.Contains(cmd, "upgrade to sleeper") {
		changes["busType"] = "sleeper"
	} else if strings.Contains(cmd, "change to ac") || strings.Contains(cmd, "make it ac") {
		changes["busType"] = "ac"
	}
}

// MergeDelta returns the record's JSON object form with exactly the delta's
// keys overwritten — never fewer, never extra.
func MergeDelta(original models.Record, changes Delta) (map[string]any, error) {
	merged, err := RecordToMap(original)
	if err != nil {
		return nil, err
	}
	for k, v := range changes {
		merged[k] = v
	}
	return merged, nil
}
