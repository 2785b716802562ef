package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockReplyGenerator is a mock type for the ReplyGenerator type
type MockReplyGenerator struct {
	mock.Mock
}

// GenerateReply provides a mock function with given fields: ctx, rolePrompt, userInput
func (_m *MockReplyGenerator) GenerateReply(ctx context.Context, rolePrompt string, userInput string) (string, error) {
	ret := _m.Called(ctx, rolePrompt, userInput)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, string) string); ok {
		r0 = rf(ctx, rolePrompt, userInput)
	} else {
		r0 = ret.String(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, rolePrompt, userInput)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockReplyGenerator creates a new instance of MockReplyGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockReplyGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReplyGenerator {
	m := &MockReplyGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
