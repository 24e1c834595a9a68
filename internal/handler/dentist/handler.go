package dentist

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/handler"
	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/scheduling"
	"github.com/dentalbright/booking-api/internal/service/booking"
	"github.com/dentalbright/booking-api/internal/service/dentist"
)

type Handler struct {
	dentists *dentist.Service
	bookings *booking.Service
}

func NewHandler(dentists *dentist.Service, bookings *booking.Service) *Handler {
	return &Handler{
		dentists: dentists,
		bookings: bookings,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	dentists := r.Group("/dentists")
	{
		dentists.GET("", h.ListDentists)
		dentists.GET("/:id", h.GetDentist)
		dentists.GET("/:id/availability", h.GetAvailability)
	}
}

func (h *Handler) ListDentists(c *gin.Context) {
	var (
		dentists []*model.Dentist
		err      error
	)
	if search := c.Query("search"); search != "" {
		dentists, err = h.dentists.Search(c.Request.Context(), search)
	} else {
		dentists, err = h.dentists.List(c.Request.Context())
	}
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	for _, d := range dentists {
		d.PasswordHash = ""
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dentists))
}

func (h *Handler) GetDentist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
		return
	}

	d, err := h.dentists.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	d.PasswordHash = ""
	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

// GetAvailability returns the day's slot grid for a dentist. The optional
// service_type query selects the slot length; it defaults to a checkup.
func (h *Handler) GetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
		return
	}

	date, err := scheduling.ParseDate(c.Query("date"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	serviceType := model.ServiceType(c.DefaultQuery("service_type", string(model.ServiceTypeCheckup)))

	slots, err := h.bookings.Availability(c.Request.Context(), id, date, serviceType)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}
