package user

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

// RegisterRoutes mounts the account routes. authMW wraps only register and
// login, which are the credential-guessing surface.
func (h *Handler) RegisterRoutes(api *echo.Group, authMW ...echo.MiddlewareFunc) {
	api.POST("/register", h.Register, authMW...)
	api.POST("/login", h.Login, authMW...)
	api.GET("/user/:inn", h.GetUser)
	api.PATCH("/user/:inn", h.PatchUser)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	u, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AuthResponse{Success: true, User: u})
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	u, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AuthResponse{Success: true, User: u})
}

func (h *Handler) GetUser(c echo.Context) error {
	u, err := h.svc.GetByINN(c.Request().Context(), c.Param("inn"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) PatchUser(c echo.Context) error {
	var p Patch
	if err := c.Bind(&p); err != nil {
		return err
	}
	u, err := h.svc.Patch(c.Request().Context(), c.Param("inn"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AuthResponse{Success: true, User: u})
}
