package schedule

import "github.com/gtfs-tools/transitaccess/internal/models"

// DayPlan says which neighbouring service days can contribute occurrences to
// an analysis window.
type DayPlan struct {
	Today             models.DayToken
	ConsiderYesterday bool
	ConsiderTomorrow  bool
	Yesterday         models.DayToken
	Tomorrow          models.DayToken
}

// PlanDays decides whether yesterday's service can still be running at the
// start of window (its latest scheduled time reaches past midnight) and
// whether the window runs into tomorrow.
func PlanDays(window models.TimeWindow, maxScheduleOffset int, day models.DayToken) DayPlan {
	return DayPlan{
		Today:             day,
		ConsiderYesterday: window.Start < maxScheduleOffset-models.SecondsPerDay,
		ConsiderTomorrow:  window.End > models.SecondsPerDay,
		Yesterday:         day.Prev(),
		Tomorrow:          day.Next(),
	}
}

// DayTypes lists the service days to query, today first.
func (p DayPlan) DayTypes() []models.DayType {
	types := []models.DayType{models.Today}
	if p.ConsiderYesterday {
		types = append(types, models.Yesterday)
	}
	if p.ConsiderTomorrow {
		types = append(types, models.Tomorrow)
	}
	return types
}

// Token returns the day token backing a day type.
func (p DayPlan) Token(dt models.DayType) models.DayToken {
	switch dt {
	case models.Yesterday:
		return p.Yesterday
	case models.Tomorrow:
		return p.Tomorrow
	}
	return p.Today
}
