package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestHandler_RegisterOmitsPassword(t *testing.T) {
	h := NewHandler(newTestService(t))
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/register", `{"inn":"12345678901234","password":"p","name":"A","phone":"1"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":true`) || !strings.Contains(body, `"inn":"12345678901234"`) {
		t.Errorf("unexpected body %s", body)
	}
	if strings.Contains(body, "password") {
		t.Errorf("password leaked: %s", body)
	}
}

func TestHandler_GetUserReturnsBareView(t *testing.T) {
	svc := newTestService(t)
	register(t, svc, testINN)
	h := NewHandler(svc)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("inn")
	c.SetParamValues(testINN)

	if err := h.GetUser(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := rec.Body.String()
	if strings.Contains(body, "success") || !strings.Contains(body, `"name":"A"`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestHandler_RoutesUseAuthMiddleware(t *testing.T) {
	h := NewHandler(newTestService(t))
	e := echo.New()
	calls := 0
	mw := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			calls++
			return next(c)
		}
	}
	h.RegisterRoutes(e.Group("/api"), mw)

	for _, path := range []string{"/api/login", "/api/user/" + testINN} {
		var req *http.Request
		if strings.HasSuffix(path, "login") {
			req = jsonRequest(http.MethodPost, path, `{"inn":"x","password":"y"}`)
		} else {
			req = httptest.NewRequest(http.MethodGet, path, nil)
		}
		e.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 1 {
		t.Errorf("expected middleware to wrap only login, ran %d times", calls)
	}
}
