package week

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"centrotreino_backend/internals/features/schedule/day/dto"
	daysvc "centrotreino_backend/internals/features/schedule/day/service"
	"centrotreino_backend/internals/features/schedule/regybox"
	"centrotreino_backend/internals/helpers/retry"
)

// DayFetcher loads one day of the schedule.
type DayFetcher interface {
	FetchDay(ctx context.Context, date string) (dto.DaySchedule, error)
}

// StatusError is a non-2xx answer from the day endpoint.
type StatusError struct {
	Date   string
	Status int
	Text   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to load classes for %s: %d %s", e.Date, e.Status, e.Text)
}

// ServiceFetcher loads days in process through the day service, so the week
// fan-out never passes the public rate limiter.
type ServiceFetcher struct {
	Day *daysvc.DayService
}

func NewServiceFetcher(day *daysvc.DayService) *ServiceFetcher {
	return &ServiceFetcher{Day: day}
}

func (f *ServiceFetcher) FetchDay(ctx context.Context, date string) (dto.DaySchedule, error) {
	if _, err := time.Parse(dto.DateLayout, date); err != nil {
		return dto.DaySchedule{}, retry.Permanent(fmt.Errorf("invalid date %q: %w", date, err))
	}
	day, warnings, err := f.Day.GetDay(ctx, date)
	if err != nil {
		var cfgErr *regybox.ConfigurationError
		if errors.As(err, &cfgErr) {
			return dto.DaySchedule{}, retry.Permanent(err)
		}
		return dto.DaySchedule{}, err
	}
	for _, w := range warnings {
		log.Printf("[WARN] week %s listing: %s", date, w)
	}
	return day, nil
}

// HTTPFetcher calls the day endpoint over HTTP, so responses can come from
// any shared cache in between.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) FetchDay(ctx context.Context, date string) (dto.DaySchedule, error) {
	endpoint := f.BaseURL + "/schedule/day?date=" + url.QueryEscape(date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return dto.DaySchedule{}, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return dto.DaySchedule{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dto.DaySchedule{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Date: date, Status: resp.StatusCode, Text: http.StatusText(resp.StatusCode)}
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusServiceUnavailable:
			// a bad date or a missing configuration will not fix itself
			return dto.DaySchedule{}, retry.Permanent(serr)
		}
		return dto.DaySchedule{}, serr
	}

	var out dto.DaySchedule
	if err := sonic.Unmarshal(body, &out); err != nil {
		return dto.DaySchedule{}, fmt.Errorf("decode classes for %s: %w", date, err)
	}
	return out, nil
}
