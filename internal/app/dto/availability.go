package dto

import (
	"time"

	"staymarket/internal/domain/availability"
	"staymarket/internal/domain/shared/daterange"
)

type DateRangeDTO struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type AvailableDates struct {
	AccommodationID string         `json:"accommodation_id"`
	Window          DateRangeDTO   `json:"window"`
	Available       []DateRangeDTO `json:"available"`
}

type NextAvailableDate struct {
	AccommodationID string     `json:"accommodation_id"`
	MinNights       int        `json:"min_nights"`
	Found           bool       `json:"found"`
	Date            *time.Time `json:"date,omitempty"`
}

type CalendarBlock struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Reason    string    `json:"reason"`
	Reference string    `json:"reference,omitempty"`
}

type Calendar struct {
	AccommodationID string          `json:"accommodation_id"`
	Blocks          []CalendarBlock `json:"blocks"`
}

func MapDateRange(dr daterange.DateRange) DateRangeDTO {
	return DateRangeDTO{CheckIn: dr.CheckIn, CheckOut: dr.CheckOut}
}

func MapDateRanges(ranges []daterange.DateRange) []DateRangeDTO {
	out := make([]DateRangeDTO, 0, len(ranges))
	for _, dr := range ranges {
		out = append(out, MapDateRange(dr))
	}
	return out
}

func MapCalendar(cal *availability.Calendar) Calendar {
	if cal == nil {
		return Calendar{}
	}
	blocks := make([]CalendarBlock, 0, len(cal.Blocks))
	for _, b := range cal.Blocks {
		blocks = append(blocks, CalendarBlock{
			From:      b.Range.CheckIn,
			To:        b.Range.CheckOut,
			Reason:    string(b.Reason),
			Reference: b.Reference,
		})
	}
	return Calendar{AccommodationID: string(cal.AccommodationID), Blocks: blocks}
}
