package accommodation

import (
	"context"
	"errors"
	"strings"
	"time"

	"staymarket/internal/domain/shared/money"
)

var (
	ErrNotFound      = errors.New("accommodation: not found")
	ErrTitleRequired = errors.New("accommodation: title is required")
	ErrMaxGuests     = errors.New("accommodation: max guests must be at least 1")
	ErrNightsBounds  = errors.New("accommodation: minimum nights must not exceed maximum nights")
	ErrNightlyRate   = errors.New("accommodation: base price per night must be a valid amount")
	ErrNotBookable   = errors.New("accommodation: not open for booking")
)

type AccommodationID string
type HostID string

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// CancellationPolicy is the refund tier the host picked for the listing.
// The pricing engine maps it to concrete refund amounts.
type CancellationPolicy string

const (
	PolicyFlexible    CancellationPolicy = "FLEXIBLE"
	PolicyModerate    CancellationPolicy = "MODERATE"
	PolicyStrict      CancellationPolicy = "STRICT"
	PolicySuperStrict CancellationPolicy = "SUPER_STRICT"
)

// Policy is the subset of accommodation attributes the availability and
// pricing engines decide on. It travels by value into the engines so the
// core never reaches back into storage.
type Policy struct {
	MaxGuests         int
	MinimumNights     int
	MaximumNights     int // 0 means no upper bound
	BasePricePerNight money.Money
	Cancellation      CancellationPolicy
	InstantBook       bool
}

func (p Policy) Validate() error {
	if p.MaxGuests <= 0 {
		return ErrMaxGuests
	}
	if p.MaximumNights > 0 && p.MinimumNights > p.MaximumNights {
		return ErrNightsBounds
	}
	if p.BasePricePerNight.Currency == "" {
		return ErrNightlyRate
	}
	return nil
}

// Accommodation is the listing record the booking flow consumes. Only the
// fields relevant to booking decisions live here; media, reviews and search
// attributes belong to other services.
type Accommodation struct {
	ID        AccommodationID
	Host      HostID
	Title     string
	City      string
	Country   string
	Policy    Policy
	Status    ApprovalStatus
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id AccommodationID) (*Accommodation, error)
	Save(ctx context.Context, acc *Accommodation) error
}

type CreateParams struct {
	ID        AccommodationID
	Host      HostID
	Title     string
	City      string
	Country   string
	Policy    Policy
	CreatedAt time.Time
}

func New(params CreateParams) (*Accommodation, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := params.Policy.Validate(); err != nil {
		return nil, err
	}
	if params.Policy.MinimumNights <= 0 {
		params.Policy.MinimumNights = 1
	}
	if params.Policy.Cancellation == "" {
		params.Policy.Cancellation = PolicyModerate
	}
	now := params.CreatedAt.UTC()
	return &Accommodation{
		ID:        params.ID,
		Host:      params.Host,
		Title:     strings.TrimSpace(params.Title),
		City:      params.City,
		Country:   params.Country,
		Policy:    params.Policy,
		Status:    ApprovalPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a *Accommodation) Approve(now time.Time) {
	a.Status = ApprovalApproved
	a.UpdatedAt = now.UTC()
}

func (a *Accommodation) Reject(now time.Time) {
	a.Status = ApprovalRejected
	a.UpdatedAt = now.UTC()
}

// Bookable reports whether new bookings may target this accommodation.
func (a *Accommodation) Bookable() bool {
	return a.Status == ApprovalApproved
}
