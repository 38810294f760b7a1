package contact

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/botcatalog/internal/model"
	"github.com/hitoshi/botcatalog/internal/repository"
)

// --- インメモリのリポジトリ ---

type memoryMessageRepo struct {
	mu       sync.Mutex
	messages map[string]model.ContactMessage
	failWith error
}

func newMemoryMessageRepo() *memoryMessageRepo {
	return &memoryMessageRepo{messages: make(map[string]model.ContactMessage)}
}

func (r *memoryMessageRepo) Create(_ context.Context, msg *model.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.messages[msg.ID] = *msg
	return nil
}

func (r *memoryMessageRepo) List(_ context.Context, filter model.MessageFilter) ([]*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]*model.ContactMessage, 0)
	for _, msg := range r.messages {
		if filter == model.MessageFilterUnread && msg.IsRead {
			continue
		}
		if filter == model.MessageFilterRead && !msg.IsRead {
			continue
		}
		msg := msg
		out = append(out, &msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryMessageRepo) MarkRead(_ context.Context, id string) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	msg, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	msg.IsRead = true
	r.messages[id] = msg
	return &msg, nil
}

func (r *memoryMessageRepo) Counts(_ context.Context) (*model.MessageCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &model.MessageCounts{Total: len(r.messages)}
	for _, msg := range r.messages {
		if !msg.IsRead {
			c.Unread++
		}
	}
	return c, nil
}

var _ repository.ContactMessageRepository = (*memoryMessageRepo)(nil)

type mockMetrics struct {
	received int
	read     int
}

func (m *mockMetrics) RecordContactMessage() { m.received++ }
func (m *mockMetrics) RecordMessageRead()    { m.read++ }

func validInput() CreateInput {
	return CreateInput{Name: "Budi", Email: "budi@example.com", Message: "Halo, saya tertarik dengan Bot A"}
}

// --- テスト ---

func TestCreate_ValidInput_AppearsUnreadInList(t *testing.T) {
	repo := newMemoryMessageRepo()
	m := &mockMetrics{}
	svc := NewService(repo, nil, m)
	ctx := context.Background()

	msg, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if msg.ID == "" || msg.IsRead || msg.CreatedAt.IsZero() {
		t.Errorf("created message = %+v", msg)
	}

	all, err := svc.List(ctx, model.MessageFilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != msg.ID || all[0].IsRead {
		t.Errorf("List() = %+v", all)
	}
	if m.received != 1 {
		t.Errorf("received metric = %d, want 1", m.received)
	}
}

func TestCreate_InvalidInput_ReturnsValidationError(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateInput)
		wantField string
	}{
		{"empty message", func(in *CreateInput) { in.Message = "" }, "message"},
		{"whitespace message", func(in *CreateInput) { in.Message = " \n " }, "message"},
		{"empty name", func(in *CreateInput) { in.Name = "" }, "name"},
		{"malformed email", func(in *CreateInput) { in.Email = "budi@" }, "email"},
		{"empty email", func(in *CreateInput) { in.Email = "" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryMessageRepo()
			svc := NewService(repo, nil, nil)

			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
				t.Fatalf("Create() error = %v, want VALIDATION_FAILED", err)
			}
			if _, ok := apiErr.Fields[tt.wantField]; !ok {
				t.Errorf("Fields = %v, want key %q", apiErr.Fields, tt.wantField)
			}
			if len(repo.messages) != 0 {
				t.Error("invalid message should not be stored")
			}
		})
	}
}

func TestCreate_StripsMarkupAndTrimsEmail(t *testing.T) {
	svc := NewService(newMemoryMessageRepo(), nil, nil)

	msg, err := svc.Create(context.Background(), CreateInput{
		Name:    "<b>Budi</b>",
		Email:   "  budi@example.com ",
		Message: `<script>steal()</script>Mau tanya harga & fitur`,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if msg.Name != "Budi" {
		t.Errorf("Name = %q, want %q", msg.Name, "Budi")
	}
	if msg.Email != "budi@example.com" {
		t.Errorf("Email = %q, want trimmed", msg.Email)
	}
	if msg.Message != "Mau tanya harga & fitur" {
		t.Errorf("Message = %q", msg.Message)
	}
}

func TestList_NewestFirstWithFilter(t *testing.T) {
	svc := NewService(newMemoryMessageRepo(), nil, nil)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		msg, err := svc.Create(ctx, validInput())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, msg.ID)
	}
	if _, err := svc.MarkRead(ctx, ids[1]); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	all, _ := svc.List(ctx, model.MessageFilterAll)
	if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Errorf("List(all) not newest first")
	}

	unread, _ := svc.List(ctx, model.MessageFilterUnread)
	if len(unread) != 2 {
		t.Errorf("List(unread) len = %d, want 2", len(unread))
	}

	read, _ := svc.List(ctx, model.MessageFilterRead)
	if len(read) != 1 || read[0].ID != ids[1] {
		t.Errorf("List(read) = %+v", read)
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	m := &mockMetrics{}
	svc := NewService(newMemoryMessageRepo(), nil, m)
	ctx := context.Background()

	msg, _ := svc.Create(ctx, validInput())

	for i := 0; i < 2; i++ {
		got, err := svc.MarkRead(ctx, msg.ID)
		if err != nil {
			t.Fatalf("MarkRead() call %d error = %v", i+1, err)
		}
		if !got.IsRead {
			t.Errorf("MarkRead() call %d IsRead = false", i+1)
		}
	}

	counts, _ := svc.Counts(ctx)
	if counts.Total != 1 || counts.Unread != 0 {
		t.Errorf("Counts() = %+v, want {Total:1 Unread:0}", counts)
	}
	if m.read != 2 {
		t.Errorf("read metric = %d, want 2", m.read)
	}
}

func TestMarkRead_Unknown_ReturnsNotFound(t *testing.T) {
	svc := NewService(newMemoryMessageRepo(), nil, nil)

	_, err := svc.MarkRead(context.Background(), "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeMessageNotFound {
		t.Fatalf("MarkRead() error = %v, want MESSAGE_NOT_FOUND", err)
	}
}

func TestStoreError_IsWrapped(t *testing.T) {
	repo := newMemoryMessageRepo()
	repo.failWith = errors.New("disk full")
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validInput())
	if !errors.Is(err, repo.failWith) {
		t.Fatalf("Create() error = %v, want wrapped store error", err)
	}

	_, err = svc.MarkRead(context.Background(), "any")
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("store failure should not map to APIError, got %v", apiErr)
	}
}
