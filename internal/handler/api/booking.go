package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	reqdto "venuebook/internal/handler/dto/request"
	resdto "venuebook/internal/handler/dto/response"
	"venuebook/internal/handler/httperr"
	"venuebook/internal/handler/middleware"
	"venuebook/internal/pkg/jwt"
	"venuebook/internal/usecase/commands"
	"venuebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
	tokens          *jwt.Service
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries, tokens *jwt.Service) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
		tokens:          tokens,
	}
}

// @Summary Create booking
// @Description Book one or more venues for the same slot. All venues must be free or nothing is created.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {array} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	views, err := h.bookingCommands.Create(c.Request.Context(), req.ToParams(userID))
	if err != nil {
		var conflict *commands.ConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": conflict.Error(),
			})
		case errors.Is(err, commands.ErrNoVenuesSelected):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "At least one venue must be selected",
			})
		case errors.Is(err, commands.ErrVenueNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Venue not found",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid booking data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingViews(views))
}

// @Summary List bookings
// @Description Admins see every booking, other users only their own
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetUserRole(c)

	items, err := h.bookingQueries.ListVisible(c.Request.Context(), userID, role.IsAdmin())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingListItems(items))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	if !role.IsAdmin() && view.RequesterID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Approve booking
// @Description Advance one booking a level, or confirm it at the final level
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.ApproveBookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/approve [post]
func (h *BookingHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return
	}

	result, err := h.bookingCommands.Approve(c.Request.Context(), id)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromApproveResult(result))
}

// @Summary Reject booking
// @Description Permanently cancel one booking with a reason
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RejectBookingRequest true "Rejection reason"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/reject [post]
func (h *BookingHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return
	}

	var req reqdto.RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Rejection reason is required",
		})
		return
	}

	if err := h.bookingCommands.Reject(c.Request.Context(), id, req.Reason); err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Approve booking via emailed link
// @Description Approve action reachable from the link in approval-request mail; the signed token is the sole credential
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Param token query string true "Signed action token"
// @Success 200 {object} resdto.ApproveBookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings/{id}/approve [get]
func (h *BookingHandler) ApproveViaLink(c *gin.Context) {
	id, ok := h.actionBookingID(c, jwt.ActionApprove)
	if !ok {
		return
	}

	result, err := h.bookingCommands.Approve(c.Request.Context(), id)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromApproveResult(result))
}

// @Summary Reject booking via emailed link
// @Description Reject action reachable from the link in approval-request mail
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Param token query string true "Signed action token"
// @Param reason query string false "Rejection reason"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /bookings/{id}/reject [get]
func (h *BookingHandler) RejectViaLink(c *gin.Context) {
	id, ok := h.actionBookingID(c, jwt.ActionReject)
	if !ok {
		return
	}

	reason := c.Query("reason")
	if reason == "" {
		reason = "Rejected by approver"
	}

	if err := h.bookingCommands.Reject(c.Request.Context(), id, reason); err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking rejected",
	})
}

// actionBookingID authenticates an emailed action link: the token must be
// valid, minted for this action, and bound to the booking in the path.
func (h *BookingHandler) actionBookingID(c *gin.Context, action string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return uuid.Nil, false
	}

	claims, err := h.tokens.ValidateActionToken(c.Query("token"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired action link", nil)
		return uuid.Nil, false
	}
	if claims.Action != action || claims.BookingID != id {
		httperr.AbortWithError(c, http.StatusUnauthorized, jwt.ErrInvalidToken, "Invalid or expired action link", nil)
		return uuid.Nil, false
	}

	return id, true
}

// @Summary Cancel booking
// @Description Requester removes their own booking; admins may remove any
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := h.bookingCommands.Cancel(c.Request.Context(), id, userID, role.IsAdmin()); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "You may only cancel your own bookings",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Export bookings as CSV
// @Tags bookings
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string
// @Router /bookings/export [get]
func (h *BookingHandler) ExportCSV(c *gin.Context) {
	items, err := h.bookingQueries.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	filename := fmt.Sprintf("bookings-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"ID", "Batch", "Venue", "Requested By", "Start", "End", "Purpose", "Status"})
	for _, item := range items {
		_ = w.Write([]string{
			item.ID.String(),
			item.BatchID.String(),
			item.VenueName,
			item.RequesterUsername,
			item.StartTime.Format(time.RFC3339),
			item.EndTime.Format(time.RFC3339),
			item.Purpose,
			item.Status,
		})
	}
	w.Flush()
}

func (h *BookingHandler) respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, commands.ErrAlreadyConfirmed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is already confirmed",
		})
	case errors.Is(err, commands.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is already cancelled",
		})
	case errors.Is(err, commands.ErrEmptyRejectionReason):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Rejection reason is required",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
