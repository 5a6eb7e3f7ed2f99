package support

import "github.com/medbook/medbook/internal/platform/docstore"

// Event types published to the support feed.
const (
	EventTicketCreated = "ticket.created"
	EventTicketMessage = "ticket.message"
	EventTicketClosed  = "ticket.closed"
	EventTicketDeleted = "ticket.deleted"
)

const (
	defaultUserName  = "User"
	defaultAdminName = "Administrator"
)

type CreateRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// MessageRequest is the body of POST /support/:id/message.
type MessageRequest struct {
	Message    string `json:"message"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
}

// ReplyRequest is the body of the legacy PATCH /support/:id/reply.
type ReplyRequest struct {
	AdminReply string `json:"adminReply"`
}

type DeleteResponse struct {
	Success bool                    `json:"success"`
	Deleted *docstore.SupportTicket `json:"deleted"`
}

func defaultSenderName(sender string) string {
	if sender == docstore.SenderAdmin {
		return defaultAdminName
	}
	return defaultUserName
}
