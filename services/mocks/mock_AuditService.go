package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blogem/registry-api/models"
)

// MockAuditService is a mock type for the AuditService type
type MockAuditService struct {
	mock.Mock
}

type MockAuditService_Expecter struct {
	mock *mock.Mock
}

func (_m *MockAuditService) EXPECT() *MockAuditService_Expecter {
	return &MockAuditService_Expecter{mock: &_m.Mock}
}

// List provides a mock function with given fields: ctx, filter
func (_m *MockAuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, int, error) {
	ret := _m.Called(ctx, filter)

	var r0 []models.AuditEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.AuditEntry)
	}
	return r0, ret.Int(1), ret.Error(2)
}

type MockAuditService_List_Call struct {
	*mock.Call
}

func (_e *MockAuditService_Expecter) List(ctx interface{}, filter interface{}) *MockAuditService_List_Call {
	return &MockAuditService_List_Call{Call: _e.mock.On("List", ctx, filter)}
}

func (_c *MockAuditService_List_Call) Return(_a0 []models.AuditEntry, _a1 int, _a2 error) *MockAuditService_List_Call {
	_c.Call.Return(_a0, _a1, _a2)
	return _c
}

// Get provides a mock function with given fields: ctx, id
func (_m *MockAuditService) Get(ctx context.Context, id int64) (*models.AuditEntry, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.AuditEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.AuditEntry)
	}
	return r0, ret.Error(1)
}

type MockAuditService_Get_Call struct {
	*mock.Call
}

func (_e *MockAuditService_Expecter) Get(ctx interface{}, id interface{}) *MockAuditService_Get_Call {
	return &MockAuditService_Get_Call{Call: _e.mock.On("Get", ctx, id)}
}

func (_c *MockAuditService_Get_Call) Return(_a0 *models.AuditEntry, _a1 error) *MockAuditService_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// NewMockAuditService creates a new instance of MockAuditService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockAuditService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuditService {
	m := &MockAuditService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
