// file: internals/features/schedule/week/aggregator.go
package week

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"centrotreino_backend/internals/features/schedule/day/dto"
	"centrotreino_backend/internals/helpers/querycache"
)

const DefaultProgram = "Treino"

type ClassView struct {
	Time            string `json:"time"`
	Program         string `json:"program"`
	Available       bool   `json:"available"`
	StudentsInClass int    `json:"studentsInClass"`
	TotalStudents   int    `json:"totalStudents"`
	ClassID         string `json:"classId"`
}

type DayView struct {
	Day     string      `json:"day"`
	Date    string      `json:"date"`
	Classes []ClassView `json:"classes"`
}

type DayStatus struct {
	Day          string           `json:"day"`
	Date         string           `json:"date"`
	Phase        querycache.Phase `json:"phase"`
	IsFetching   bool             `json:"isFetching"`
	IsStale      bool             `json:"isStale"`
	FailureCount int              `json:"failureCount"`
	Error        string           `json:"error,omitempty"`
	UpdatedAt    *time.Time       `json:"updatedAt,omitempty"`
}

// State is the week as the page renders it. Data only holds days that have
// resolved, in Monday..Friday order.
type State struct {
	IsLoading  bool        `json:"isLoading"`
	IsError    bool        `json:"isError"`
	IsFetching bool        `json:"isFetching"`
	Data       []DayView   `json:"data"`
	Error      string      `json:"error,omitempty"`
	Days       []DayStatus `json:"days"`
}

type Options struct {
	Fetcher  DayFetcher
	Cache    *querycache.Client[dto.DaySchedule]
	Labels   Labels
	Location *time.Location
	Program  string
	Now      func() time.Time
}

// Aggregator fans the five weekdays out to the day fetcher through a shared
// query cache. Days succeed or fail independently.
type Aggregator struct {
	fetcher DayFetcher
	cache   *querycache.Client[dto.DaySchedule]
	labels  Labels
	loc     *time.Location
	program string
	now     func() time.Time
}

func NewAggregator(opts Options) *Aggregator {
	a := &Aggregator{
		fetcher: opts.Fetcher,
		cache:   opts.Cache,
		labels:  opts.Labels,
		loc:     opts.Location,
		program: opts.Program,
		now:     opts.Now,
	}
	if a.labels == (Labels{}) {
		a.labels = PortugueseLabels
	}
	if a.loc == nil {
		a.loc = time.UTC
	}
	if a.program == "" {
		a.program = DefaultProgram
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

func (a *Aggregator) Location() *time.Location { return a.loc }

// Dates is the current week, computed from the clock on every call.
func (a *Aggregator) Dates() [5]WeekDay {
	return WeekdayDates(a.now().In(a.loc), a.labels)
}

func cacheKey(date string) string { return "schedule:" + date }

func (a *Aggregator) fetchFn(date string) querycache.Fetcher[dto.DaySchedule] {
	return func(ctx context.Context) (dto.DaySchedule, error) {
		return a.fetcher.FetchDay(ctx, date)
	}
}

// Observe starts whatever the five days need and returns without waiting.
func (a *Aggregator) Observe(ctx context.Context) State {
	days, snaps := a.ensure()
	return a.combine(days, snaps)
}

// Refetch fetches all five days again regardless of freshness.
func (a *Aggregator) Refetch(ctx context.Context) State {
	days, snaps := a.refetch()
	return a.combine(days, snaps)
}

// Load is Observe followed by waiting for the days that have nothing to show
// yet, until they settle or ctx ends. A stale day keeps its value and refreshes
// in the background. The state is returned in both cases.
func (a *Aggregator) Load(ctx context.Context) (State, error) {
	days, snaps := a.ensure()
	pending := make([]bool, len(days))
	for i, s := range snaps {
		pending[i] = !s.HasData && s.IsFetching
	}
	return a.settle(ctx, days, pending)
}

// Reload is Refetch followed by waiting for all five days.
func (a *Aggregator) Reload(ctx context.Context) (State, error) {
	days, _ := a.refetch()
	pending := []bool{true, true, true, true, true}
	return a.settle(ctx, days, pending)
}

func (a *Aggregator) ensure() ([5]WeekDay, []querycache.Snapshot[dto.DaySchedule]) {
	days := a.Dates()
	snaps := make([]querycache.Snapshot[dto.DaySchedule], len(days))
	for i, d := range days {
		snaps[i] = a.cache.Ensure(cacheKey(d.Date), a.fetchFn(d.Date))
	}
	return days, snaps
}

func (a *Aggregator) refetch() ([5]WeekDay, []querycache.Snapshot[dto.DaySchedule]) {
	days := a.Dates()
	snaps := make([]querycache.Snapshot[dto.DaySchedule], len(days))
	for i, d := range days {
		snaps[i] = a.cache.Refetch(cacheKey(d.Date), a.fetchFn(d.Date))
	}
	return days, snaps
}

// settle waits on the pending days and reads the others as they are.
func (a *Aggregator) settle(ctx context.Context, days [5]WeekDay, pending []bool) (State, error) {
	snaps := make([]querycache.Snapshot[dto.DaySchedule], len(days))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range days {
		key := cacheKey(d.Date)
		if !pending[i] {
			snaps[i], _ = a.cache.Snapshot(key)
			continue
		}
		g.Go(func() error {
			s, err := a.cache.Wait(gctx, key)
			snaps[i] = s
			return err
		})
	}
	err := g.Wait()
	return a.combine(days, snaps), err
}

func (a *Aggregator) combine(days [5]WeekDay, snaps []querycache.Snapshot[dto.DaySchedule]) State {
	st := State{Data: []DayView{}, Days: make([]DayStatus, 0, len(days))}

	for i, d := range days {
		s := snaps[i]

		status := DayStatus{
			Day:          d.Label,
			Date:         d.Date,
			Phase:        s.Phase,
			IsFetching:   s.IsFetching,
			IsStale:      s.IsStale,
			FailureCount: s.FailureCount,
		}
		if !s.UpdatedAt.IsZero() {
			at := s.UpdatedAt
			status.UpdatedAt = &at
		}
		if s.Phase == querycache.PhaseFailed && s.Err != nil {
			status.Error = s.Err.Error()
			st.IsError = true
			if st.Error == "" {
				st.Error = status.Error
			}
		}
		if s.IsFetching {
			st.IsFetching = true
		}
		if !s.HasData && s.Phase != querycache.PhaseFailed {
			st.IsLoading = true
		}
		if s.HasData {
			st.Data = append(st.Data, a.view(d, s.Data))
		}
		st.Days = append(st.Days, status)
	}
	return st
}

func (a *Aggregator) view(d WeekDay, day dto.DaySchedule) DayView {
	out := DayView{Day: d.Label, Date: d.Date, Classes: make([]ClassView, 0, len(day.Classes))}
	for _, c := range day.Classes {
		out.Classes = append(out.Classes, ClassView{
			Time:            c.Time,
			Program:         a.program,
			Available:       c.Available,
			StudentsInClass: c.StudentsInClass,
			TotalStudents:   c.TotalStudents,
			ClassID:         c.ClassID,
		})
	}
	return out
}
