package docstore

import "encoding/json"

// Ticket statuses. A ticket moves new -> answered -> closed.
const (
	TicketNew      = "new"
	TicketAnswered = "answered"
	TicketClosed   = "closed"
)

// Message senders.
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// Message is one entry of a ticket conversation. Messages are append-only.
type Message struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
	CreatedAt  string `json:"createdAt"`

	kept map[string]json.RawMessage
}

func (m *Message) fields() []field {
	return []field{
		{key: "id", val: &m.ID},
		{key: "text", val: &m.Text},
		{key: "sender", val: &m.Sender},
		{key: "senderName", val: &m.SenderName},
		{key: "createdAt", val: &m.CreatedAt},
	}
}

func (m Message) MarshalJSON() ([]byte, error) {
	fields := m.fields()
	var w objectWriter
	w.fields(fields, m.kept)
	w.rest(fields, m.kept)
	return w.finish(), nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var out Message
	kept, err := decodeRecord(data, out.fields())
	if err != nil {
		return err
	}
	if len(kept) > 0 {
		out.kept = kept
	}
	*m = out
	return nil
}

// SupportTicket is a support conversation between a user and the admins.
//
// Tickets written before conversations existed have no Messages (nil, the key
// is absent) and keep the opening text in Message instead. A stored empty
// list stays an empty, non-nil slice.
type SupportTicket struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message,omitempty"`
	Messages      []Message `json:"messages"`
	Status        string    `json:"status"`
	CreatedAt     string    `json:"createdAt"`
	LastMessageAt string    `json:"lastMessageAt,omitempty"`

	kept map[string]json.RawMessage
}

// fields lists the typed keys in stored order; messages goes after the
// first five.
func (t *SupportTicket) fields() []field {
	return []field{
		{key: "id", val: &t.ID},
		{key: "userId", val: &t.UserID},
		{key: "userName", val: &t.UserName},
		{key: "subject", val: &t.Subject},
		{key: "message", val: &t.Message, omit: true},
		{key: "status", val: &t.Status},
		{key: "createdAt", val: &t.CreatedAt},
		{key: "lastMessageAt", val: &t.LastMessageAt, omit: true},
	}
}

func (t SupportTicket) MarshalJSON() ([]byte, error) {
	fields := t.fields()
	var w objectWriter
	w.fields(fields[:5], t.kept)
	if t.Messages != nil {
		var list []byte
		list = append(list, '[')
		for i, m := range t.Messages {
			if i > 0 {
				list = append(list, ',')
			}
			b, err := m.MarshalJSON()
			if err != nil {
				return nil, err
			}
			list = append(list, b...)
		}
		list = append(list, ']')
		w.raw("messages", list)
	}
	w.fields(fields[5:], t.kept)
	w.rest(fields, t.kept, "messages")
	return w.finish(), nil
}

func (t *SupportTicket) UnmarshalJSON(data []byte) error {
	var out SupportTicket
	kept, err := decodeRecord(data, out.fields())
	if err != nil {
		return err
	}
	if v, ok := kept["messages"]; ok {
		if err := json.Unmarshal(v, &out.Messages); err != nil {
			return err
		}
		delete(kept, "messages")
	}
	if len(kept) > 0 {
		out.kept = kept
	}
	*t = out
	return nil
}

func (t *SupportTicket) Clone() *SupportTicket {
	c := *t
	if t.Messages != nil {
		c.Messages = make([]Message, len(t.Messages))
		copy(c.Messages, t.Messages)
	}
	return &c
}

// HasMessage reports whether id is already used by a message of t.
func (t *SupportTicket) HasMessage(id string) bool {
	for _, m := range t.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}
