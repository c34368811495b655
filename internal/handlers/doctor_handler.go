package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/dto"
	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
	"github.com/BruksfildServices01/termin-notifier/internal/httpresp"
	ucAvailability "github.com/BruksfildServices01/termin-notifier/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type Registrar interface {
	Execute(ctx context.Context, doctorID uint) (*ucAvailability.RegisteredDoctor, error)
}

type DoctorHandler struct {
	doctors  domain.DoctorRepository
	register Registrar
}

func NewDoctorHandler(doctors domain.DoctorRepository, register Registrar) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, register: register}
}

type CreateDoctorRequest struct {
	DoctorID uint `json:"doctor_id" binding:"required"`
}

// ======================================================
// ROUTES
// ======================================================

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "doctor_id is required.")
		return
	}

	out, err := h.register.Execute(c.Request.Context(), req.DoctorID)
	if err != nil {
		fail(c, err, "doctor_create_failed")
		return
	}

	httpresp.Created(c, dto.RegisteredDoctorDTO{
		DoctorDTO:   dto.NewDoctorDTO(*out.Doctor),
		SeededSlots: out.SeededSlots,
	})
}

func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.doctors.ListDoctors(c.Request.Context())
	if err != nil {
		fail(c, err, "doctor_list_failed")
		return
	}

	out := make([]dto.DoctorDTO, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, dto.NewDoctorDTO(d))
	}
	httpresp.List(c, out)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.doctors.GetDoctor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			httperr.NotFound(c, httperr.CodeDoctorNotFound, "Doctor not found.")
			return
		}
		fail(c, err, "doctor_get_failed")
		return
	}

	httpresp.OK(c, dto.NewDoctorDTO(*doctor))
}
