package docstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "appointments": [
    {
      "id": "1700000000000",
      "name": "Ivan",
      "phone": "+996555000111",
      "doctor": "Dr. Anna Smirnova",
      "date": "2024-05-01",
      "time": "10:00",
      "specialtyName": "Neurology",
      "status": "pending",
      "createdAt": "2024-04-20T08:00:00.000Z",
      "comment": "first visit",
      "specialty": "neurology"
    }
  ],
  "users": [
    {
      "id": "1700000000001",
      "inn": "12345678901234",
      "password": "secret",
      "name": "Ivan",
      "phone": "+996555000111",
      "createdAt": "2024-04-20T08:00:00.000Z"
    }
  ],
  "support_tickets": [
    {
      "id": "1700000000002",
      "userId": "1700000000001",
      "userName": "Ivan",
      "subject": "Reschedule",
      "messages": [
        {
          "id": "1700000000002",
          "text": "Can I move my visit?",
          "sender": "user",
          "senderName": "Ivan",
          "createdAt": "2024-04-20T09:00:00.000Z"
        }
      ],
      "status": "new",
      "createdAt": "2024-04-20T09:00:00.000Z",
      "lastMessageAt": "2024-04-20T09:00:00.000Z"
    }
  ],
  "doctors": {
    "therapy": [
      {
        "id": 5,
        "name": "Dr. Elena Petrova",
        "experience": "20 years of experience"
      }
    ],
    "cardiology": [
      {
        "id": 1,
        "name": "Dr. Maria Alekseeva",
        "experience": "15 years of experience"
      }
    ]
  }
}`

func TestDocument_RoundTripIsByteStable(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(out))
}

func TestDecode_AbsentCollectionsAreEmpty(t *testing.T) {
	doc, err := Decode([]byte(`{"appointments":[]}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.Users)
	assert.NotNil(t, doc.SupportTickets)
	assert.Empty(t, doc.Users)
	assert.Nil(t, doc.Doctors, "absent directory must stay absent")

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"appointments":[],"users":[],"support_tickets":[]}`, string(out))
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"appointments": [`))
	assert.Error(t, err)
}

func TestAppointment_ExtraFieldsSurvive(t *testing.T) {
	var a Appointment
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","status":"pending","createdAt":"x","notes":{"a":1},"age":42}`), &a))

	assert.Equal(t, "1", a.ID)
	require.Len(t, a.Extra, 2)
	assert.JSONEq(t, `{"a":1}`, string(a.Extra["notes"]))

	out, err := json.Marshal(&a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","status":"pending","createdAt":"x","notes":{"a":1},"age":42}`, string(out))
}

func TestAppointment_ExtraCannotShadowTypedFields(t *testing.T) {
	a := Appointment{ID: "1", Status: StatusPending, CreatedAt: "x",
		Extra: map[string]json.RawMessage{"status": json.RawMessage(`"confirmed"`)}}

	out, err := json.Marshal(&a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","status":"pending","createdAt":"x"}`, string(out))
}

const numericDocument = `{
  "appointments": [
    {
      "id": "1",
      "name": "Ivan",
      "phone": 79991234567,
      "doctor": null,
      "status": "pending",
      "createdAt": "x"
    }
  ],
  "users": [
    {
      "id": "2",
      "inn": 12345678901234,
      "password": "secret",
      "name": "Ivan",
      "phone": 79991234567,
      "createdAt": "x"
    }
  ],
  "support_tickets": [
    {
      "id": "3",
      "userId": 2,
      "userName": "Ivan",
      "subject": "Question",
      "messages": [
        {
          "id": "3",
          "text": 42,
          "sender": "user",
          "senderName": "Ivan",
          "createdAt": "x"
        }
      ],
      "status": "new",
      "createdAt": "x"
    }
  ],
  "doctors": {
    "therapy": [
      {
        "id": 1,
        "name": "Dr. A",
        "experience": 12
      }
    ]
  }
}`

func TestDecode_KeepsNonStringValues(t *testing.T) {
	doc, err := Decode([]byte(numericDocument))
	require.NoError(t, err)

	require.Len(t, doc.Appointments, 1)
	assert.Equal(t, "79991234567", doc.Appointments[0].Phone)
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "12345678901234", doc.Users[0].INN)
	require.Len(t, doc.SupportTickets, 1)
	assert.Equal(t, "2", doc.SupportTickets[0].UserID)

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, numericDocument, string(out))
}

func TestAppointment_ChangedFieldDropsStoredValue(t *testing.T) {
	var a Appointment
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","phone":79991234567,"status":"pending","createdAt":"x"}`), &a))

	a.Set("phone", "+996555000111")
	out, err := json.Marshal(&a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","phone":"+996555000111","status":"pending","createdAt":"x"}`, string(out))
}

func TestAppointment_EmptyStringsAreKept(t *testing.T) {
	in := `{"id":"1","name":"","specialtyName":"","status":"pending","createdAt":"x"}`
	var a Appointment
	require.NoError(t, json.Unmarshal([]byte(in), &a))

	out, err := json.Marshal(&a)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))

	b := Appointment{ID: "2", Status: StatusPending, CreatedAt: "x"}
	assert.True(t, b.Set("specialtyName", ""))
	assert.False(t, b.Set("room", "12"))
	out, err = json.Marshal(&b)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2","specialtyName":"","status":"pending","createdAt":"x"}`, string(out))
}

func TestAppointment_DoesNotEscapeHTML(t *testing.T) {
	doc := NewDocument()
	doc.Appointments = append(doc.Appointments, &Appointment{ID: "1", Name: "Ivan <Jr> & co", Status: StatusPending, CreatedAt: "x"})
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name": "Ivan <Jr> & co"`)
}

func TestSupportTicket_MessagesPresence(t *testing.T) {
	var empty SupportTicket
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","userId":"u","userName":"U","subject":"s","messages":[],"status":"new","createdAt":"x"}`), &empty))
	require.NotNil(t, empty.Messages)
	assert.Empty(t, empty.Messages)
	assert.NotNil(t, empty.Clone().Messages)

	out, err := json.Marshal(&empty)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"messages":[]`)

	var legacy SupportTicket
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","userId":"u","userName":"U","subject":"s","message":"hi","status":"new","createdAt":"x"}`), &legacy))
	assert.Nil(t, legacy.Messages)
	out, err = json.Marshal(&legacy)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"messages"`)
}

func TestAppointment_SlotTaken(t *testing.T) {
	a := &Appointment{Doctor: "Dr. X", Date: "2024-05-01", Time: "10:00", Status: StatusConfirmed}
	assert.True(t, a.SlotTaken("Dr. X", "2024-05-01", "10:00"))
	assert.False(t, a.SlotTaken("Dr. X", "2024-05-01", "11:00"))

	a.Status = StatusCancelled
	assert.False(t, a.SlotTaken("Dr. X", "2024-05-01", "10:00"))
}

func TestDirectory_PreservesOrderAndMaxID(t *testing.T) {
	var d Directory
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":[{"id":9,"name":"A","experience":"1"}],"alpha":[]}`), &d))

	assert.Equal(t, []string{"zeta", "alpha"}, d.Specialties())
	assert.Equal(t, 9, d.MaxID())

	out, err := json.Marshal(&d)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":[{"id":9,"name":"A","experience":"1"}],"alpha":[]}`, string(out))
}

func TestDirectory_RejectsNonObject(t *testing.T) {
	var d Directory
	assert.Error(t, json.Unmarshal([]byte(`[]`), &d))
}

func TestDirectory_CloneIsIndependent(t *testing.T) {
	d := BuiltinDefaults{}.Doctors()
	c := d.Clone()
	c.Set("oncology", []Doctor{{ID: 100, Name: "Dr. X", Experience: "5 years"}})

	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, 8, d.MaxID())
}

func TestNewID_BumpsOnCollision(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	used := map[string]bool{"1700000000000": true, "1700000000001": true}

	id := NewID(now, func(id string) bool { return used[id] })
	assert.Equal(t, "1700000000002", id)
	assert.Equal(t, "1700000000000", NewID(now, nil))
}

func TestTimestamp_MillisecondUTC(t *testing.T) {
	ts := time.Date(2024, 4, 20, 11, 0, 0, 123456789, time.FixedZone("KGT", 6*3600))
	assert.Equal(t, "2024-04-20T05:00:00.123Z", Timestamp(ts))
}
