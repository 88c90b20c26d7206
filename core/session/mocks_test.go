package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/NCNU-OpenSource/meow-server/core/catalog"
	"github.com/NCNU-OpenSource/meow-server/core/notification"
)

// mockCatalog implements catalog.Catalog for testing.
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Select() (catalog.Template, bool) {
	args := m.Called()
	return args.Get(0).(catalog.Template), args.Bool(1)
}

func (m *mockCatalog) Get(id string) (catalog.Template, bool) {
	args := m.Called(id)
	return args.Get(0).(catalog.Template), args.Bool(1)
}

func (m *mockCatalog) Len() int {
	args := m.Called()
	return args.Int(0)
}

// mockBackend implements chaos.Backend for testing.
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Provision(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockBackend) Inject(ctx context.Context, cmd string) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *mockBackend) IsResolved(ctx context.Context, tpl catalog.Template) (bool, error) {
	args := m.Called(ctx, tpl)
	return args.Bool(0), args.Error(1)
}

// mockSender implements notification.Sender for testing.
type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
