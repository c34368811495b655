package availability

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/dto"
	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
)

type ListDoctorSlots struct {
	slots domain.SlotStore
}

func NewListDoctorSlots(slots domain.SlotStore) *ListDoctorSlots {
	return &ListDoctorSlots{slots: slots}
}

func (uc *ListDoctorSlots) Execute(ctx context.Context, doctorID uint) ([]dto.TimeslotDTO, error) {
	slots, err := uc.slots.ListByDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeDoctorNotFound)
		}
		return nil, err
	}

	out := make([]dto.TimeslotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, dto.NewTimeslotDTO(s))
	}
	return out, nil
}

// ======================================================
// Manual slot maintenance
// ======================================================

type ManageSlot struct {
	slots domain.SlotStore
}

func NewManageSlot(slots domain.SlotStore) *ManageSlot {
	return &ManageSlot{slots: slots}
}

// Add stores a slot by hand. The next cycle removes it if the remote system
// does not offer it.
func (uc *ManageSlot) Add(ctx context.Context, doctorID uint, at time.Time) (*dto.TimeslotDTO, error) {
	if _, err := uc.slots.ListByDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeDoctorNotFound)
		}
		return nil, err
	}

	slot, err := uc.slots.Insert(ctx, doctorID, at)
	if err != nil {
		return nil, err
	}

	out := dto.NewTimeslotDTO(*slot)
	return &out, nil
}

func (uc *ManageSlot) Remove(ctx context.Context, slotID uint) error {
	if err := uc.slots.Delete(ctx, slotID); err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return httperr.ErrBusiness(httperr.CodeSlotNotFound)
		}
		return err
	}
	return nil
}
