package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
	"github.com/BruksfildServices01/termin-notifier/internal/httpresp"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
	"github.com/BruksfildServices01/termin-notifier/internal/validators"
)

// DomainChecker reports whether an address domain can receive mail.
type DomainChecker func(ctx context.Context, email string) bool

type SubscriptionHandler struct {
	repo        domain.SubscriptionRepository
	checkDomain DomainChecker
}

// NewSubscriptionHandler skips the domain lookup when checkDomain is nil.
func NewSubscriptionHandler(repo domain.SubscriptionRepository, checkDomain DomainChecker) *SubscriptionHandler {
	return &SubscriptionHandler{repo: repo, checkDomain: checkDomain}
}

// ======================================================
// USERS
// ======================================================

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=100"`
}

func (h *SubscriptionHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid JSON body.")
		return
	}

	req.Email = domain.NormalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validators.Struct(req); err != nil {
		httperr.BadRequest(c, "invalid_user", "A valid email and username are required.")
		return
	}

	if h.checkDomain != nil && !h.checkDomain(c.Request.Context(), req.Email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to accept mail.")
		return
	}

	user := &models.User{Email: req.Email, Username: req.Username}
	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		fail(c, err, "user_create_failed")
		return
	}
	httpresp.Created(c, user)
}

func (h *SubscriptionHandler) GetUser(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.repo.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "user_get_failed")
		return
	}
	httpresp.OK(c, user)
}

// ======================================================
// SUBSCRIPTIONS
// ======================================================

type CreateSubscriptionRequest struct {
	UserID   uint `json:"user_id" binding:"required"`
	DoctorID uint `json:"doctor_id" binding:"required"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "user_id and doctor_id are required.")
		return
	}

	sub := &models.Subscription{UserID: req.UserID, DoctorID: req.DoctorID}
	if err := h.repo.CreateSubscription(c.Request.Context(), sub); err != nil {
		fail(c, err, "subscription_create_failed")
		return
	}
	httpresp.Created(c, sub)
}

func (h *SubscriptionHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteSubscription(c.Request.Context(), id); err != nil {
		fail(c, err, "subscription_delete_failed")
		return
	}
	httpresp.NoContent(c)
}

func (h *SubscriptionHandler) ListByUser(c *gin.Context) {
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	subs, err := h.repo.ListSubscriptionsByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "subscription_list_failed")
		return
	}
	httpresp.List(c, subs)
}
