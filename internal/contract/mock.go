package contract

import (
	"context"

	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockAccessProvider is a mock implementation of AccessProvider for testing.
type MockAccessProvider struct {
	mock.Mock
}

var _ AccessProvider = &MockAccessProvider{} // Compile-time check

// ListEntries implements the AccessProvider interface.
func (m *MockAccessProvider) ListEntries(ctx context.Context, loc schema.RepositoryLocator) ([]string, error) {
	ret := m.Called(ctx, loc)
	entries, _ := ret.Get(0).([]string)
	return entries, ret.Error(1)
}

// FetchContent implements the AccessProvider interface.
func (m *MockAccessProvider) FetchContent(ctx context.Context, loc schema.RepositoryLocator, path string) (string, error) {
	ret := m.Called(ctx, loc, path)
	return ret.String(0), ret.Error(1)
}
