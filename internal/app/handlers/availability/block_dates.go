package availability

import (
	"context"
	"strings"
	"time"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/uow"
	domainaccommodation "staymarket/internal/domain/accommodation"
	domainrange "staymarket/internal/domain/shared/daterange"
)

const (
	blockDatesKey   = "availability.block"
	unblockDatesKey = "availability.unblock"
)

type BlockDatesCommand struct {
	AccommodationID string
	From            time.Time
	To              time.Time
	Reference       string
}

func (c BlockDatesCommand) Key() string { return blockDatesKey }

type BlockDatesResult struct {
	AccommodationID string `json:"accommodation_id"`
	Blocks          int    `json:"blocks"`
}

type BlockDatesHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *BlockDatesHandler) Handle(ctx context.Context, cmd BlockDatesCommand) (*BlockDatesResult, error) {
	id := strings.TrimSpace(cmd.AccommodationID)
	if id == "" {
		return nil, ErrAccommodationIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	dr, err := domainrange.New(cmd.From, cmd.To)
	if err != nil {
		return nil, err
	}

	cal, err := unit.Calendars().Calendar(ctx, domainaccommodation.AccommodationID(id))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := cal.BlockRange(dr, cmd.Reference, now); err != nil {
		return nil, err
	}
	if err := unit.Calendars().Save(ctx, cal); err != nil {
		return nil, err
	}

	pending := cal.PendingEvents()
	cal.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	return &BlockDatesResult{AccommodationID: id, Blocks: len(cal.Blocks)}, nil
}

type UnblockDatesCommand struct {
	AccommodationID string
	Reference       string
}

func (c UnblockDatesCommand) Key() string { return unblockDatesKey }

type UnblockDatesHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *UnblockDatesHandler) Handle(ctx context.Context, cmd UnblockDatesCommand) (*BlockDatesResult, error) {
	id := strings.TrimSpace(cmd.AccommodationID)
	if id == "" {
		return nil, ErrAccommodationIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	cal, err := unit.Calendars().Calendar(ctx, domainaccommodation.AccommodationID(id))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := cal.Release(cmd.Reference, now); err != nil {
		return nil, err
	}
	if err := unit.Calendars().Save(ctx, cal); err != nil {
		return nil, err
	}

	pending := cal.PendingEvents()
	cal.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	return &BlockDatesResult{AccommodationID: id, Blocks: len(cal.Blocks)}, nil
}

var _ commands.Handler[BlockDatesCommand, *BlockDatesResult] = (*BlockDatesHandler)(nil)
var _ commands.Handler[UnblockDatesCommand, *BlockDatesResult] = (*UnblockDatesHandler)(nil)
