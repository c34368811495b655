package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/termin-notifier/internal/httpresp"
	ucAvailability "github.com/BruksfildServices01/termin-notifier/internal/usecase/availability"
)

type TimeslotHandler struct {
	list   *ucAvailability.ListDoctorSlots
	manage *ucAvailability.ManageSlot
}

func NewTimeslotHandler(list *ucAvailability.ListDoctorSlots, manage *ucAvailability.ManageSlot) *TimeslotHandler {
	return &TimeslotHandler{list: list, manage: manage}
}

func (h *TimeslotHandler) ListByDoctor(c *gin.Context) {
	doctorID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	slots, err := h.list.Execute(c.Request.Context(), doctorID)
	if err != nil {
		fail(c, err, "timeslot_list_failed")
		return
	}
	httpresp.List(c, slots)
}

func (h *TimeslotHandler) Add(c *gin.Context) {
	doctorID, ok := uintParam(c, "doctor_id")
	if !ok {
		return
	}
	at, ok := timeParam(c, "free_slot")
	if !ok {
		return
	}

	slot, err := h.manage.Add(c.Request.Context(), doctorID, at)
	if err != nil {
		fail(c, err, "timeslot_create_failed")
		return
	}
	httpresp.Created(c, slot)
}

func (h *TimeslotHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.manage.Remove(c.Request.Context(), id); err != nil {
		fail(c, err, "timeslot_delete_failed")
		return
	}
	httpresp.NoContent(c)
}
