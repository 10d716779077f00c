package schedule

import (
	"context"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

// Store is the read-only schedule data source an analysis is built from.
type Store interface {
	Calendars(ctx context.Context) ([]models.ServiceCalendar, error)
	CalendarExceptions(ctx context.Context) ([]models.CalendarException, error)
	Routes(ctx context.Context) ([]models.Route, error)
	Trips(ctx context.Context) ([]models.Trip, error)
	StopTimes(ctx context.Context) ([]models.ScheduleElement, error)
	Frequencies(ctx context.Context) ([]models.FrequencyWindow, error)
	Runs(ctx context.Context) ([]models.Run, error)
	RunScheduleElements(ctx context.Context) ([]models.ScheduleElement, error)
}

// MemoryStore is a Store backed by slices. It is used for tests and for
// callers that assemble a schedule in code.
type MemoryStore struct {
	CalendarRows    []models.ServiceCalendar
	ExceptionRows   []models.CalendarException
	RouteRows       []models.Route
	TripRows        []models.Trip
	StopTimeRows    []models.ScheduleElement
	FrequencyRows   []models.FrequencyWindow
	RunRows         []models.Run
	RunScheduleRows []models.ScheduleElement
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Calendars(ctx context.Context) ([]models.ServiceCalendar, error) {
	return append([]models.ServiceCalendar(nil), s.CalendarRows...), ctx.Err()
}

func (s *MemoryStore) CalendarExceptions(ctx context.Context) ([]models.CalendarException, error) {
	return append([]models.CalendarException(nil), s.ExceptionRows...), ctx.Err()
}

func (s *MemoryStore) Routes(ctx context.Context) ([]models.Route, error) {
	return append([]models.Route(nil), s.RouteRows...), ctx.Err()
}

func (s *MemoryStore) Trips(ctx context.Context) ([]models.Trip, error) {
	return append([]models.Trip(nil), s.TripRows...), ctx.Err()
}

func (s *MemoryStore) StopTimes(ctx context.Context) ([]models.ScheduleElement, error) {
	return append([]models.ScheduleElement(nil), s.StopTimeRows...), ctx.Err()
}

func (s *MemoryStore) Frequencies(ctx context.Context) ([]models.FrequencyWindow, error) {
	return append([]models.FrequencyWindow(nil), s.FrequencyRows...), ctx.Err()
}

func (s *MemoryStore) Runs(ctx context.Context) ([]models.Run, error) {
	return append([]models.Run(nil), s.RunRows...), ctx.Err()
}

func (s *MemoryStore) RunScheduleElements(ctx context.Context) ([]models.ScheduleElement, error) {
	return append([]models.ScheduleElement(nil), s.RunScheduleRows...), ctx.Err()
}
