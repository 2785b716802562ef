package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber is a mock type for the Transcriber type
type MockTranscriber struct {
	mock.Mock
}

// Transcribe provides a mock function with given fields: ctx, audio, filename
func (_m *MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	ret := _m.Called(ctx, audio, filename)
	return ret.String(0), ret.Error(1)
}

// NewMockTranscriber creates a new instance of MockTranscriber. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTranscriber(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTranscriber {
	m := &MockTranscriber{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
