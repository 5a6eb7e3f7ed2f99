package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
)

type failingWrites struct {
	*docstore.MemoryBackend
}

func (f failingWrites) Write(context.Context, []byte) error { return errors.New("disk full") }

func newTestService(t *testing.T, backend docstore.Backend) *Service {
	t.Helper()
	store := docstore.New(backend, nil, zerolog.Nop())
	svc := NewService(NewDocRepo(store), zerolog.Nop())
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return svc
}

func rawFields(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func strPtr(s string) *string { return &s }

func TestService_CreateAssignsPendingAndUniqueIDs(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend())
	ctx := context.Background()

	body := `{"name":"Ivan","phone":"+996555000111","doctor":"Dr. Anna Smirnova","date":"2024-05-02","time":"10:00","status":"completed","id":"x","comment":"first visit"}`
	a, err := svc.Create(ctx, rawFields(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != docstore.StatusPending {
		t.Errorf("expected pending, got %s", a.Status)
	}
	if a.ID == "" || a.ID == "x" {
		t.Errorf("expected generated id, got %q", a.ID)
	}
	if a.CreatedAt != "2024-05-01T09:00:00.001Z" {
		t.Errorf("unexpected createdAt %s", a.CreatedAt)
	}
	if string(a.Extra["comment"]) != `"first visit"` {
		t.Errorf("expected extra field to be kept, got %v", a.Extra)
	}

	b, err := svc.Create(ctx, rawFields(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %s", a.ID)
	}

	all, _ := svc.ListAll(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(all))
	}
	if string(all[0].Extra["comment"]) != `"first visit"` {
		t.Error("extra field did not survive storage")
	}
}

func TestService_CreateRejectsNonStringField(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend())
	_, err := svc.Create(context.Background(), rawFields(t, `{"phone":996555}`))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_CreateKeepsEmptyFields(t *testing.T) {
	backend := docstore.NewMemoryBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	a, err := svc.Create(ctx, rawFields(t, `{"name":"Ivan","specialtyName":"","phone":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Patch(ctx, a.ID, Patch{Time: strPtr("")}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	stored, err := backend.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc struct {
		Appointments []map[string]json.RawMessage `json:"appointments"`
	}
	if err := json.Unmarshal(stored, &doc); err != nil || len(doc.Appointments) != 1 {
		t.Fatalf("unexpected document %s: %v", stored, err)
	}
	rec := doc.Appointments[0]
	for _, key := range []string{"specialtyName", "time"} {
		if string(rec[key]) != `""` {
			t.Errorf("expected %s to be stored as empty string, got %s", key, rec[key])
		}
	}
	if _, ok := rec["phone"]; ok {
		t.Errorf("null phone must be treated as absent, got %s", rec["phone"])
	}
}

func TestService_ListByPhoneMatchesNumericPhone(t *testing.T) {
	backend := docstore.NewMemoryBackendWith([]byte(`{"appointments":[{"id":"1","name":"Ivan","phone":79991234567,"status":"pending","createdAt":"x"}]}`))
	svc := newTestService(t, backend)

	got, err := svc.ListByPhone(context.Background(), "79991234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ivan" {
		t.Errorf("expected the stored appointment, got %+v", got)
	}
}

func TestService_CreateStorageFailure(t *testing.T) {
	svc := newTestService(t, failingWrites{docstore.NewMemoryBackendWith([]byte(`{"appointments":[]}`))})
	_, err := svc.Create(context.Background(), rawFields(t, `{"name":"Ivan"}`))
	if !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestService_ListFilters(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend())
	ctx := context.Background()
	svc.Create(ctx, rawFields(t, `{"name":"A","phone":"111","userId":"u1"}`))
	svc.Create(ctx, rawFields(t, `{"name":"B","phone":"222"}`))
	svc.Create(ctx, rawFields(t, `{"name":"C","phone":"111"}`))

	byPhone, _ := svc.ListByPhone(ctx, "111")
	if len(byPhone) != 2 || byPhone[0].Name != "A" || byPhone[1].Name != "C" {
		t.Errorf("unexpected phone filter result: %+v", byPhone)
	}
	byUser, _ := svc.ListByUser(ctx, "u1")
	if len(byUser) != 1 || byUser[0].Name != "A" {
		t.Errorf("unexpected user filter result: %+v", byUser)
	}
	none, _ := svc.ListByUser(ctx, "nobody")
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestService_PatchOverwritesOnlyGivenFields(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend())
	ctx := context.Background()
	a, _ := svc.Create(ctx, rawFields(t, `{"name":"Ivan","phone":"111","time":"10:00"}`))

	got, err := svc.Patch(ctx, a.ID, Patch{Status: strPtr(docstore.StatusConfirmed), Time: strPtr("11:00")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != docstore.StatusConfirmed || got.Time != "11:00" || got.Name != "Ivan" {
		t.Errorf("unexpected patched record %+v", got)
	}
	if got.ID != a.ID || got.CreatedAt != a.CreatedAt {
		t.Error("id and createdAt must not change")
	}
	if got.UpdatedAt == "" {
		t.Error("expected updatedAt to be set")
	}
}

func TestService_PatchErrors(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend())
	ctx := context.Background()
	a, _ := svc.Create(ctx, rawFields(t, `{"name":"Ivan"}`))

	if _, err := svc.Patch(ctx, "missing", Patch{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.Patch(ctx, a.ID, Patch{Status: strPtr("archived")}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestService_DeleteMissingLeavesStorageUntouched(t *testing.T) {
	backend := docstore.NewMemoryBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()
	svc.Create(ctx, rawFields(t, `{"name":"Ivan"}`))
	before, _ := backend.Read(ctx)

	if err := svc.Delete(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	after, _ := backend.Read(ctx)
	if string(before) != string(after) {
		t.Error("storage changed on a failed delete")
	}
}

func TestService_AvailabilityFollowsCancellation(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend())
	ctx := context.Background()
	a, _ := svc.Create(ctx, rawFields(t, `{"doctor":"Dr. X","date":"2024-05-01","time":"10:00"}`))

	free, _ := svc.CheckAvailability(ctx, "Dr. X", "2024-05-01", "10:00")
	if free {
		t.Error("expected slot to be taken")
	}
	free, _ = svc.CheckAvailability(ctx, "Dr. X", "2024-05-01", "11:00")
	if !free {
		t.Error("expected other slot to be free")
	}

	svc.Patch(ctx, a.ID, Patch{Status: strPtr(docstore.StatusCancelled)})
	free, _ = svc.CheckAvailability(ctx, "Dr. X", "2024-05-01", "10:00")
	if !free {
		t.Error("expected slot to be free after cancellation")
	}
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t, docstore.NewMemoryBackend())
	ctx := context.Background()
	a, _ := svc.Create(ctx, rawFields(t, `{"specialtyName":"Cardiology"}`))
	svc.Create(ctx, rawFields(t, `{"specialtyName":"Cardiology"}`))
	svc.Create(ctx, rawFields(t, `{}`))
	svc.Patch(ctx, a.ID, Patch{Status: strPtr(docstore.StatusCompleted)})

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 3 || st.Pending != 2 || st.Completed != 1 || st.Confirmed != 0 {
		t.Errorf("unexpected counts %+v", st)
	}
	if st.BySpecialty["Cardiology"] != 2 || st.BySpecialty[UnspecifiedSpecialty] != 1 {
		t.Errorf("unexpected specialty buckets %v", st.BySpecialty)
	}
}
