package api

import (
	"errors"
	"net/http"

	reqdto "venuebook/internal/handler/dto/request"
	resdto "venuebook/internal/handler/dto/response"
	"venuebook/internal/usecase/commands"
	"venuebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VenueHandler struct {
	venueCommands  commands.VenueCommands
	venueQueries   queries.VenueQueries
	bookingQueries queries.BookingQueries
}

func NewVenueHandler(
	venueCommands commands.VenueCommands,
	venueQueries queries.VenueQueries,
	bookingQueries queries.BookingQueries,
) *VenueHandler {
	return &VenueHandler{
		venueCommands:  venueCommands,
		venueQueries:   venueQueries,
		bookingQueries: bookingQueries,
	}
}

// @Summary List venues
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.VenueResponse
// @Router /venues [get]
func (h *VenueHandler) List(c *gin.Context) {
	views, err := h.venueQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromVenueViews(views))
}

// @Summary Get venue
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Success 200 {object} resdto.VenueResponse
// @Failure 404 {object} map[string]string
// @Router /venues/{id} [get]
func (h *VenueHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid venue ID",
		})
		return
	}

	view, err := h.venueQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Venue not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromVenueView(view))
}

// @Summary List confirmed bookings for a venue
// @Description Availability view: only confirmed bookings block a venue
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Success 200 {array} resdto.BookingListResponse
// @Router /venues/{id}/bookings [get]
func (h *VenueHandler) ListBookings(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid venue ID",
		})
		return
	}

	items, err := h.bookingQueries.ListConfirmedByVenue(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingListItems(items))
}

// @Summary Create venue
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VenueRequest true "Venue"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /venues [post]
func (h *VenueHandler) Create(c *gin.Context) {
	var req reqdto.VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.venueCommands.Create(c.Request.Context(), req.ToParams())
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": id.String(),
	})
}

// @Summary Update venue
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Param request body reqdto.VenueRequest true "Venue"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /venues/{id} [put]
func (h *VenueHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid venue ID",
		})
		return
	}

	var req reqdto.VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.venueCommands.Update(c.Request.Context(), id, req.ToParams()); err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete venue
// @Tags venues
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /venues/{id} [delete]
func (h *VenueHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid venue ID",
		})
		return
	}

	if err := h.venueCommands.Delete(c.Request.Context(), id); err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *VenueHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Venue not found",
		})
	case errors.Is(err, commands.ErrDuplicateVenueName):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Venue name already in use",
		})
	case errors.Is(err, commands.ErrVenueInUse):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Venue has bookings and cannot be deleted",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid venue data",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
