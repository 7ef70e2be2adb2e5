package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// PortalHandler serves the protected portal pages. Every route is mounted
// behind the Guard middleware.
type PortalHandler struct {
	service ports.PortalService
}

func NewPortalHandler(service ports.PortalService) *PortalHandler {
	return &PortalHandler{service: service}
}

// Dashboard godoc
//
// @Summary      Dashboard
// @Tags         portal
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  map[string]string
// @Router       /dashboard [get]
func (h *PortalHandler) Dashboard(c echo.Context) error {
	doctor, err := ctxSession(c)
	if err != nil {
		return err
	}

	d, err := h.service.Dashboard(c.Request().Context(), doctor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		Doctor:               d.Doctor,
		Stats:                d.Stats,
		Patients:             d.Patients,
		RecentAlerts:         d.RecentAlerts,
		UpcomingAppointments: d.UpcomingAppointments,
	})
}

// ListPatients godoc
//
// @Summary      List patients
// @Tags         portal
// @Produce      json
// @Param        q       query     string  false  "Search over name and email"
// @Param        status  query     string  false  "stable, needs_attention, critical or all"
// @Success      200     {object}  patientListResponse
// @Failure      401     {object}  errorResponse
// @Router       /patients [get]
func (h *PortalHandler) ListPatients(c echo.Context) error {
	items, err := h.service.Patients(c.Request().Context(), ports.PatientFilter{
		Search: c.QueryParam("q"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patientListResponse{Items: items, Total: len(items)})
}

// GetPatient godoc
//
// @Summary      Patient detail
// @Tags         portal
// @Produce      json
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  domain.Patient
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /patients/{id} [get]
func (h *PortalHandler) GetPatient(c echo.Context) error {
	p, err := h.service.Patient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ListAlerts godoc
//
// @Summary      List alerts
// @Tags         portal
// @Produce      json
// @Param        type    query     string  false  "critical, adherence, appointment, medication, symptom or all"
// @Param        status  query     string  false  "read, unread or all"
// @Success      200     {object}  alertListResponse
// @Failure      401     {object}  errorResponse
// @Router       /alerts [get]
func (h *PortalHandler) ListAlerts(c echo.Context) error {
	doctor, err := ctxSession(c)
	if err != nil {
		return err
	}

	list, err := h.service.Alerts(c.Request().Context(), doctor, ports.AlertFilter{
		Type:   c.QueryParam("type"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alertListResponse{Items: list.Items, Total: len(list.Items), UnreadCount: list.UnreadCount})
}

// MarkAlertRead godoc
//
// @Summary      Mark an alert as read
// @Tags         portal
// @Produce      json
// @Param        id   path      string  true  "Alert id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /alerts/{id}/read [post]
func (h *PortalHandler) MarkAlertRead(c echo.Context) error {
	doctor, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkAlertRead(c.Request().Context(), doctor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "alert marked as read"})
}

// MarkAllAlertsRead godoc
//
// @Summary      Mark every alert as read
// @Tags         portal
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /alerts/read-all [post]
func (h *PortalHandler) MarkAllAlertsRead(c echo.Context) error {
	doctor, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkAllAlertsRead(c.Request().Context(), doctor); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "all alerts marked as read"})
}

// ListAppointments godoc
//
// @Summary      List appointments
// @Tags         portal
// @Produce      json
// @Param        q       query     string  false  "Search over title and patient name"
// @Param        status  query     string  false  "scheduled, completed, cancelled or all"
// @Success      200     {object}  appointmentListResponse
// @Failure      401     {object}  errorResponse
// @Router       /appointments [get]
func (h *PortalHandler) ListAppointments(c echo.Context) error {
	items, err := h.service.Appointments(c.Request().Context(), ports.AppointmentFilter{
		Search: c.QueryParam("q"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointmentListResponse{Items: items, Total: len(items)})
}

// Settings godoc
//
// @Summary      Signed-in doctor's profile
// @Tags         portal
// @Produce      json
// @Success      200  {object}  settingsResponse
// @Failure      401  {object}  errorResponse
// @Router       /settings [get]
func (h *PortalHandler) Settings(c echo.Context) error {
	doctor, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settingsResponse{Doctor: doctor})
}
