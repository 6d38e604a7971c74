package mocks

import (
	"context"
	"io"

	"adminhub/internal/domain"
	"adminhub/internal/infra/media"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event string, data any) error {
	args := m.Called(ctx, event, data)
	return args.Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

// Upload drains the body so callers see the same behaviour as a real store.
func (m *MockMediaStore) Upload(ctx context.Context, f media.File, folder string) (domain.Image, error) {
	if f.Body != nil {
		_, _ = io.Copy(io.Discard, f.Body)
	}
	args := m.Called(ctx, f, folder)
	return args.Get(0).(domain.Image), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}
