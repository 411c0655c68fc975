// Package testutil provides centralized test mocks, fixtures, and helpers.
// All test files should import mocks from here instead of defining their own.
package testutil

import (
	"context"

	"github.com/ozsupport/triaged/internal/llm"
	"github.com/ozsupport/triaged/internal/storage"
	"github.com/stretchr/testify/mock"
)

// MockBlobStore implements dataset.BlobStore for tests.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Get(ctx context.Context, bucket, key string) (string, error) {
	args := m.Called(ctx, bucket, key)
	return args.String(0), args.Error(1)
}

// MockLLMClient implements llm.Client for tests.
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, prompt string) (llm.Completion, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(llm.Completion), args.Error(1)
}

// MockEnquiryRepository implements storage.EnquiryRepository for tests.
type MockEnquiryRepository struct {
	mock.Mock
}

func (m *MockEnquiryRepository) AddEnquiry(log storage.EnquiryLog) error {
	args := m.Called(log)
	return args.Error(0)
}

func (m *MockEnquiryRepository) GetRecentEnquiries(limit int) ([]storage.EnquiryLog, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.EnquiryLog), args.Error(1)
}

func (m *MockEnquiryRepository) CountEnquiries() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
