package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/handler"
	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/scheduling"
	"github.com/dentalbright/booking-api/internal/service/booking"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id/reschedule", h.RescheduleAppointment)
		appointments.PATCH("/:id/cancel", h.CancelAppointment)
	}
}

// RegisterProtectedRoutes mounts the dashboard listing behind auth.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/appointments", h.ListAppointments)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dentistID, err := uuid.Parse(req.DentistID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
		return
	}

	start, err := scheduling.ParseDateTime(req.Date, req.Time)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), booking.BookingParams{
		DentistID:    dentistID,
		PatientName:  req.PatientName,
		PatientPhone: req.Phone,
		PatientEmail: req.Email,
		Start:        start,
		ServiceType:  req.ServiceType,
		Notes:        req.Notes,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appointment))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	newStart, err := scheduling.ParseDateTime(req.Date, req.Time)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	appointment, err := h.service.Reschedule(c.Request.Context(), id, newStart)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appointment, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if id := c.Query("dentist_id"); id != "" {
		dentistID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dentist ID"))
			return
		}
		filters.DentistID = dentistID
	}

	if id := c.Query("patient_id"); id != "" {
		patientID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		filters.PatientID = patientID
	}

	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
	}

	// date narrows the listing to a single calendar day.
	if date := c.Query("date"); date != "" {
		day, err := scheduling.ParseDate(date)
		if err != nil {
			handler.RespondError(c, apperrors.Validation("invalid date: %s", date))
			return
		}
		window := scheduling.DayWindow(day)
		filters.StartDate = window.Start
		filters.EndDate = window.End
	}

	if date := c.Query("start_date"); date != "" {
		start, err := scheduling.ParseDate(date)
		if err != nil {
			handler.RespondError(c, apperrors.Validation("invalid start_date: %s", date))
			return
		}
		filters.StartDate = start
	}

	if date := c.Query("end_date"); date != "" {
		end, err := scheduling.ParseDate(date)
		if err != nil {
			handler.RespondError(c, apperrors.Validation("invalid end_date: %s", date))
			return
		}
		// end_date is inclusive for callers
		filters.EndDate = end.Add(24 * time.Hour)
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}
