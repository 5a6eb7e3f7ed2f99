package support

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
	"github.com/medbook/medbook/internal/platform/websocket"
)

type Service struct {
	repo   Repository
	events websocket.EventPublisher
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates the ticket service. events may be nil.
func NewService(repo Repository, events websocket.EventPublisher, logger zerolog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger, now: time.Now}
}

func (s *Service) ListAll(ctx context.Context) ([]*docstore.SupportTicket, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*docstore.SupportTicket, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*docstore.SupportTicket, 0)
	for _, t := range all {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Create opens a ticket with the user's first message.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*docstore.SupportTicket, error) {
	if req.UserID == "" || req.Subject == "" || req.Message == "" {
		return nil, apperr.Validation("All fields are required")
	}
	name := req.UserName
	if name == "" {
		name = defaultUserName
	}

	now := s.now()
	ts := docstore.Timestamp(now)
	t := &docstore.SupportTicket{
		UserID:   req.UserID,
		UserName: name,
		Subject:  req.Subject,
		Messages: []docstore.Message{{
			Text:       req.Message,
			Sender:     docstore.SenderUser,
			SenderName: name,
			CreatedAt:  ts,
		}},
		Status:        docstore.TicketNew,
		CreatedAt:     ts,
		LastMessageAt: ts,
	}
	if err := s.repo.Create(ctx, t, now); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", t.ID).Str("user_id", t.UserID).Msg("ticket created")
	s.publish(ctx, EventTicketCreated, t)
	return t, nil
}

// AppendMessage adds a message from a user or an admin. The first admin
// message moves a new ticket to answered.
func (s *Service) AppendMessage(ctx context.Context, ticketID string, req MessageRequest) (*docstore.SupportTicket, error) {
	if req.Message == "" || req.Sender == "" {
		return nil, apperr.Validation("Message and sender are required")
	}
	if req.Sender != docstore.SenderUser && req.Sender != docstore.SenderAdmin {
		return nil, apperr.Validation("Sender must be user or admin")
	}

	t, err := s.repo.Update(ctx, ticketID, func(t *docstore.SupportTicket) error {
		now := s.now()
		s.appendMessage(t, now, req)
		if req.Sender == docstore.SenderAdmin && t.Status == docstore.TicketNew {
			t.Status = docstore.TicketAnswered
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", t.ID).Str("sender", req.Sender).Msg("ticket message added")
	s.publish(ctx, EventTicketMessage, t)
	return t, nil
}

// Reply is the legacy admin reply. Unlike AppendMessage it always leaves the
// ticket answered, even when it was closed.
func (s *Service) Reply(ctx context.Context, ticketID string, req ReplyRequest) (*docstore.SupportTicket, error) {
	if req.AdminReply == "" {
		return nil, apperr.Validation("Reply is required")
	}

	msg := MessageRequest{Message: req.AdminReply, Sender: docstore.SenderAdmin, SenderName: defaultAdminName}
	t, err := s.repo.Update(ctx, ticketID, func(t *docstore.SupportTicket) error {
		s.appendMessage(t, s.now(), msg)
		t.Status = docstore.TicketAnswered
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", t.ID).Msg("ticket replied")
	s.publish(ctx, EventTicketMessage, t)
	return t, nil
}

func (s *Service) Close(ctx context.Context, ticketID string) (*docstore.SupportTicket, error) {
	t, err := s.repo.Update(ctx, ticketID, func(t *docstore.SupportTicket) error {
		t.Status = docstore.TicketClosed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", t.ID).Msg("ticket closed")
	s.publish(ctx, EventTicketClosed, t)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, ticketID string) (*docstore.SupportTicket, error) {
	t, err := s.repo.Delete(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", t.ID).Msg("ticket deleted")
	s.publish(ctx, EventTicketDeleted, t)
	return t, nil
}

// appendMessage is the single append path shared by AppendMessage and Reply.
// Tickets stored before conversations existed (no messages key at all) get
// their opening text turned into a first message. A stored empty list is
// appended to as is.
func (s *Service) appendMessage(t *docstore.SupportTicket, now time.Time, req MessageRequest) {
	if t.Messages == nil {
		t.Messages = []docstore.Message{{
			ID:         docstore.NewID(now, nil) + "_old",
			Text:       t.Message,
			Sender:     docstore.SenderUser,
			SenderName: t.UserName,
			CreatedAt:  t.CreatedAt,
		}}
	}

	name := req.SenderName
	if name == "" {
		name = defaultSenderName(req.Sender)
	}
	ts := docstore.Timestamp(now)
	t.Messages = append(t.Messages, docstore.Message{
		ID:         docstore.NewID(now, t.HasMessage),
		Text:       req.Message,
		Sender:     req.Sender,
		SenderName: name,
		CreatedAt:  ts,
	})
	t.LastMessageAt = ts
}

func (s *Service) publish(ctx context.Context, typ string, t *docstore.SupportTicket) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticket_id", t.ID).Msg("encode ticket event")
		return
	}
	ev := websocket.Event{
		Type:      typ,
		TicketID:  t.ID,
		UserID:    t.UserID,
		Timestamp: docstore.Timestamp(s.now()),
		Data:      data,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("ticket_id", t.ID).Str("type", typ).Msg("publish ticket event")
	}
}
