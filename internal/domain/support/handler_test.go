package support

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/docstore"
	"github.com/medbook/medbook/internal/platform/websocket"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestHandler_CreateTicket(t *testing.T) {
	h := NewHandler(newTestService(t, docstore.NewMemoryBackend(), nil))
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/support", `{"userId":"u1","userName":"Ivan","subject":"s","message":"m"}`), rec)

	if err := h.CreateTicket(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"senderName":"Ivan"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_DeleteTicketWrapsDeleted(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend(), nil)
	tk := openTicket(t, svc)
	h := NewHandler(svc)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(tk.ID)

	if err := h.DeleteTicket(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":true`) || !strings.Contains(body, `"deleted":{"id":"`+tk.ID+`"`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestHandler_EventsReachHubSubscribers(t *testing.T) {
	hub := websocket.NewHub(zerolog.Nop())
	svc := newTestService(t, docstore.NewMemoryBackend(), hub)
	tk := openTicket(t, svc)

	client := &websocket.Client{ID: "c1", Topics: []string{websocket.TicketTopic(tk.ID)}, Send: make(chan []byte, 4)}
	hub.Register(client)
	defer hub.Unregister(client)

	if _, err := svc.Close(context.Background(), tk.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case data := <-client.Send:
		if !strings.Contains(string(data), `"type":"ticket.closed"`) {
			t.Errorf("unexpected event %s", data)
		}
	default:
		t.Fatal("expected a ticket.closed event")
	}
}
