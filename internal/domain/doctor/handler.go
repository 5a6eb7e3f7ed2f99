package doctor

import (
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
	api.GET("/doctors", h.ListDoctors)
	api.POST("/doctors/:specialty", h.AddDoctor)
	api.PATCH("/doctors/:specialty/:id", h.PatchDoctor)
	api.DELETE("/doctors/:specialty/:id", h.DeleteDoctor)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	dir, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dir)
}

func (h *Handler) AddDoctor(c echo.Context) error {
	var req AddRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	doc, err := h.svc.Add(c.Request().Context(), c.Param("specialty"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) PatchDoctor(c echo.Context) error {
	var p Patch
	if err := c.Bind(&p); err != nil {
		return err
	}
	doc, err := h.svc.Patch(c.Request().Context(), c.Param("specialty"), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), c.Param("specialty"), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeleteResponse{Message: "Doctor deleted", ID: id})
}
