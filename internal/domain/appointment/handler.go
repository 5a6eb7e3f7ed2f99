package appointment

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/phone/:phone", h.ListByPhone)
	api.GET("/appointments/user/:userId", h.ListByUser)
	api.POST("/appointments", h.CreateAppointment)
	api.PATCH("/appointments/:id", h.PatchAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
	api.GET("/stats", h.GetStats)
	api.POST("/check-availability", h.CheckAvailability)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	items, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListByPhone(c echo.Context) error {
	items, err := h.svc.ListByPhone(c.Request().Context(), c.Param("phone"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListByUser(c echo.Context) error {
	items, err := h.svc.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	fields := map[string]json.RawMessage{}
	if err := c.Bind(&fields); err != nil {
		return err
	}
	a, err := h.svc.Create(c.Request().Context(), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) PatchAppointment(c echo.Context) error {
	var p Patch
	if err := c.Bind(&p); err != nil {
		return err
	}
	a, err := h.svc.Patch(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeleteResponse{Message: "Appointment deleted", ID: id})
}

func (h *Handler) GetStats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) CheckAvailability(c echo.Context) error {
	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	ok, err := h.svc.CheckAvailability(c.Request().Context(), req.Doctor, req.Date, req.Time)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{Available: ok})
}
