package accommodation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"staymarket/internal/app/commands"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	"staymarket/internal/domain/shared/money"
)

const (
	createAccommodationKey = "accommodation.create"
	reviewAccommodationKey = "accommodation.review"
	getAccommodationKey    = "accommodation.get"
)

var (
	ErrIDRequired   = errors.New("accommodation: id is required")
	ErrHostRequired = errors.New("accommodation: host id is required")
)

type CreateAccommodationCommand struct {
	CommandID     string
	HostID        string
	Title         string
	City          string
	Country       string
	MaxGuests     int
	MinimumNights int
	MaximumNights int
	NightlyAmount string
	Currency      string
	Cancellation  string
	InstantBook   bool
}

func (c CreateAccommodationCommand) Key() string { return createAccommodationKey }

type CreateAccommodationResult struct {
	AccommodationID string `json:"accommodation_id"`
	Status          string `json:"status"`
}

type CreateAccommodationHandler struct {
	// DefaultCurrency prices a listing whose request omits the currency.
	DefaultCurrency string
	Logger          *slog.Logger
}

func (h *CreateAccommodationHandler) Handle(ctx context.Context, cmd CreateAccommodationCommand) (*CreateAccommodationResult, error) {
	if strings.TrimSpace(cmd.HostID) == "" {
		return nil, ErrHostRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	currency := strings.TrimSpace(cmd.Currency)
	if currency == "" {
		currency = h.DefaultCurrency
	}
	nightly, err := money.Parse(cmd.NightlyAmount, currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc, err := domainaccommodation.New(domainaccommodation.CreateParams{
		ID:      domainaccommodation.AccommodationID(cmd.CommandID),
		Host:    domainaccommodation.HostID(cmd.HostID),
		Title:   cmd.Title,
		City:    cmd.City,
		Country: cmd.Country,
		Policy: domainaccommodation.Policy{
			MaxGuests:         cmd.MaxGuests,
			MinimumNights:     cmd.MinimumNights,
			MaximumNights:     cmd.MaximumNights,
			BasePricePerNight: nightly,
			Cancellation:      domainaccommodation.CancellationPolicy(strings.ToUpper(strings.TrimSpace(cmd.Cancellation))),
			InstantBook:       cmd.InstantBook,
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Accommodations().Save(ctx, acc); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("accommodation created", "accommodation_id", acc.ID, "host_id", acc.Host)
	}
	return &CreateAccommodationResult{AccommodationID: string(acc.ID), Status: string(acc.Status)}, nil
}

type ReviewAccommodationCommand struct {
	AccommodationID string
	Approve         bool
}

func (c ReviewAccommodationCommand) Key() string { return reviewAccommodationKey }

type ReviewAccommodationResult struct {
	AccommodationID string `json:"accommodation_id"`
	Status          string `json:"status"`
}

type ReviewAccommodationHandler struct {
	Logger *slog.Logger
}

func (h *ReviewAccommodationHandler) Handle(ctx context.Context, cmd ReviewAccommodationCommand) (*ReviewAccommodationResult, error) {
	id := strings.TrimSpace(cmd.AccommodationID)
	if id == "" {
		return nil, ErrIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	acc, err := unit.Accommodations().ByID(ctx, domainaccommodation.AccommodationID(id))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if cmd.Approve {
		acc.Approve(now)
	} else {
		acc.Reject(now)
	}
	if err := unit.Accommodations().Save(ctx, acc); err != nil {
		return nil, err
	}
	return &ReviewAccommodationResult{AccommodationID: string(acc.ID), Status: string(acc.Status)}, nil
}

type GetAccommodationQuery struct {
	AccommodationID string
}

func (q GetAccommodationQuery) Key() string { return getAccommodationKey }

type AccommodationView struct {
	ID            string `json:"id"`
	HostID        string `json:"host_id"`
	Title         string `json:"title"`
	City          string `json:"city"`
	Country       string `json:"country"`
	MaxGuests     int    `json:"max_guests"`
	MinimumNights int    `json:"minimum_nights"`
	MaximumNights int    `json:"maximum_nights,omitempty"`
	NightlyAmount string `json:"nightly_amount"`
	Currency      string `json:"currency"`
	Cancellation  string `json:"cancellation_policy"`
	InstantBook   bool   `json:"instant_book"`
	Status        string `json:"status"`
}

type GetAccommodationHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetAccommodationHandler) Handle(ctx context.Context, q GetAccommodationQuery) (AccommodationView, error) {
	id := strings.TrimSpace(q.AccommodationID)
	if id == "" {
		return AccommodationView{}, ErrIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return AccommodationView{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	acc, err := unit.Accommodations().ByID(execCtx, domainaccommodation.AccommodationID(id))
	if err != nil {
		return AccommodationView{}, err
	}
	return AccommodationView{
		ID:            string(acc.ID),
		HostID:        string(acc.Host),
		Title:         acc.Title,
		City:          acc.City,
		Country:       acc.Country,
		MaxGuests:     acc.Policy.MaxGuests,
		MinimumNights: acc.Policy.MinimumNights,
		MaximumNights: acc.Policy.MaximumNights,
		NightlyAmount: acc.Policy.BasePricePerNight.Amount.StringFixed(2),
		Currency:      acc.Policy.BasePricePerNight.Currency,
		Cancellation:  string(acc.Policy.Cancellation),
		InstantBook:   acc.Policy.InstantBook,
		Status:        string(acc.Status),
	}, nil
}

var _ commands.Handler[CreateAccommodationCommand, *CreateAccommodationResult] = (*CreateAccommodationHandler)(nil)
var _ commands.Handler[ReviewAccommodationCommand, *ReviewAccommodationResult] = (*ReviewAccommodationHandler)(nil)
var _ queries.Handler[GetAccommodationQuery, AccommodationView] = (*GetAccommodationHandler)(nil)
