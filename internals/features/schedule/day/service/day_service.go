// file: internals/features/schedule/day/service/day_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"centrotreino_backend/internals/features/schedule/day/dto"
	"centrotreino_backend/internals/features/schedule/listing"
)

// Upstream is the part of the booking client the day service needs.
type Upstream interface {
	Configured() bool
	Login(ctx context.Context) (string, error)
	FetchDayListing(ctx context.Context, date, token string) (string, error)
}

type DayService struct {
	upstream Upstream
}

func NewDayService(upstream Upstream) *DayService {
	return &DayService{upstream: upstream}
}

func (s *DayService) Configured() bool { return s.upstream.Configured() }

// GetDay logs in, fetches the listing for date and parses it. A fresh session
// is taken on every call and nothing is retried here.
func (s *DayService) GetDay(ctx context.Context, date string) (dto.DaySchedule, []listing.Warning, error) {
	day, err := time.Parse(dto.DateLayout, date)
	if err != nil {
		return dto.DaySchedule{}, nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	token, err := s.upstream.Login(ctx)
	if err != nil {
		return dto.DaySchedule{}, nil, err
	}

	raw, err := s.upstream.FetchDayListing(ctx, date, token)
	if err != nil {
		return dto.DaySchedule{}, nil, err
	}

	res, err := listing.ParseDay(raw, day)
	if err != nil {
		return dto.DaySchedule{}, nil, err
	}
	return dto.NewDaySchedule(date, res.Classes), res.Warnings, nil
}
