package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockLedger is a mock type for the Ledger type
type MockLedger struct {
	mock.Mock
}

// RecordVerdict provides a mock function with given fields: ctx, caseID, outcome, note
func (_m *MockLedger) RecordVerdict(ctx context.Context, caseID uuid.UUID, outcome models.Outcome, note string) error {
	ret := _m.Called(ctx, caseID, outcome, note)
	return ret.Error(0)
}

// RecordTutorialCompletion provides a mock function with given fields: ctx, player
func (_m *MockLedger) RecordTutorialCompletion(ctx context.Context, player string) error {
	ret := _m.Called(ctx, player)
	return ret.Error(0)
}

// NewMockLedger creates a new instance of MockLedger. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockLedger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLedger {
	m := &MockLedger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
