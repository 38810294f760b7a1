package handler

import (
	"context"
	"sync"

	"github.com/hitoshi/botcatalog/internal/contact"
	"github.com/hitoshi/botcatalog/internal/model"
	"github.com/hitoshi/botcatalog/internal/product"
)

// --- モック定義 ---

type mockAuthService struct {
	getLoginURLFn    func(state string) string
	handleCallbackFn func(ctx context.Context, code string) (*model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return "https://id.example.com/authorize?state=" + state
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return nil, model.NewUnauthorizedError()
}

type mockProductService struct {
	mu         sync.Mutex
	calls      []string
	listActive func(ctx context.Context) ([]*model.Product, error)
	listAll    func(ctx context.Context) ([]*model.Product, error)
	get        func(ctx context.Context, id string) (*model.Product, error)
	create     func(ctx context.Context, in product.CreateInput) (*model.Product, error)
	update     func(ctx context.Context, id string, in product.UpdateInput) (*model.Product, error)
	delete     func(ctx context.Context, id string) error
}

func (m *mockProductService) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockProductService) ListActive(ctx context.Context) ([]*model.Product, error) {
	m.record("ListActive")
	if m.listActive != nil {
		return m.listActive(ctx)
	}
	return []*model.Product{}, nil
}

func (m *mockProductService) ListAll(ctx context.Context) ([]*model.Product, error) {
	m.record("ListAll")
	if m.listAll != nil {
		return m.listAll(ctx)
	}
	return []*model.Product{}, nil
}

func (m *mockProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	m.record("Get")
	if m.get != nil {
		return m.get(ctx, id)
	}
	return nil, model.NewProductNotFoundError(id)
}

func (m *mockProductService) Create(ctx context.Context, in product.CreateInput) (*model.Product, error) {
	m.record("Create")
	if m.create != nil {
		return m.create(ctx, in)
	}
	return &model.Product{ID: "new", Name: in.Name}, nil
}

func (m *mockProductService) Update(ctx context.Context, id string, in product.UpdateInput) (*model.Product, error) {
	m.record("Update")
	if m.update != nil {
		return m.update(ctx, id, in)
	}
	return &model.Product{ID: id}, nil
}

func (m *mockProductService) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return nil
}

// mutations は状態を変更する呼び出しの回数を返す。
func (m *mockProductService) mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == "Create" || c == "Update" || c == "Delete" {
			n++
		}
	}
	return n
}

type mockContactService struct {
	create   func(ctx context.Context, in contact.CreateInput) (*model.ContactMessage, error)
	list     func(ctx context.Context, filter model.MessageFilter) ([]*model.ContactMessage, error)
	markRead func(ctx context.Context, id string) (*model.ContactMessage, error)
}

func (m *mockContactService) Create(ctx context.Context, in contact.CreateInput) (*model.ContactMessage, error) {
	if m.create != nil {
		return m.create(ctx, in)
	}
	return &model.ContactMessage{ID: "msg-1", Name: in.Name, Email: in.Email, Message: in.Message}, nil
}

func (m *mockContactService) List(ctx context.Context, filter model.MessageFilter) ([]*model.ContactMessage, error) {
	if m.list != nil {
		return m.list(ctx, filter)
	}
	return []*model.ContactMessage{}, nil
}

func (m *mockContactService) MarkRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	if m.markRead != nil {
		return m.markRead(ctx, id)
	}
	return &model.ContactMessage{ID: id, IsRead: true}, nil
}

type mockStatsService struct {
	statsFn func(ctx context.Context) (*statsResponse, error)
}

func (m *mockStatsService) Stats(ctx context.Context) (*statsResponse, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &statsResponse{}, nil
}

type mockLoginRecorder struct {
	success, failure int
}

func (m *mockLoginRecorder) RecordLogin(success bool) {
	if success {
		m.success++
	} else {
		m.failure++
	}
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.err
}
