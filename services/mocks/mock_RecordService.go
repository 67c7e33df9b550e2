package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blogem/registry-api/models"
)

// MockRecordService is a mock type for the RecordService type
type MockRecordService struct {
	mock.Mock
}

type MockRecordService_Expecter struct {
	mock *mock.Mock
}

func (_m *MockRecordService) EXPECT() *MockRecordService_Expecter {
	return &MockRecordService_Expecter{mock: &_m.Mock}
}

// List provides a mock function with given fields: ctx, kind, filter
func (_m *MockRecordService) List(ctx context.Context, kind models.Kind, filter models.Fields) ([]models.Record, int, error) {
	ret := _m.Called(ctx, kind, filter)

	var r0 []models.Record
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Record)
	}
	return r0, ret.Int(1), ret.Error(2)
}

type MockRecordService_List_Call struct {
	*mock.Call
}

func (_e *MockRecordService_Expecter) List(ctx interface{}, kind interface{}, filter interface{}) *MockRecordService_List_Call {
	return &MockRecordService_List_Call{Call: _e.mock.On("List", ctx, kind, filter)}
}

func (_c *MockRecordService_List_Call) Return(_a0 []models.Record, _a1 int, _a2 error) *MockRecordService_List_Call {
	_c.Call.Return(_a0, _a1, _a2)
	return _c
}

// Get provides a mock function with given fields: ctx, kind, id
func (_m *MockRecordService) Get(ctx context.Context, kind models.Kind, id int64) (*models.Record, error) {
	ret := _m.Called(ctx, kind, id)

	var r0 *models.Record
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Record)
	}
	return r0, ret.Error(1)
}

type MockRecordService_Get_Call struct {
	*mock.Call
}

func (_e *MockRecordService_Expecter) Get(ctx interface{}, kind interface{}, id interface{}) *MockRecordService_Get_Call {
	return &MockRecordService_Get_Call{Call: _e.mock.On("Get", ctx, kind, id)}
}

func (_c *MockRecordService_Get_Call) Return(_a0 *models.Record, _a1 error) *MockRecordService_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// Create provides a mock function with given fields: ctx, kind, fields
func (_m *MockRecordService) Create(ctx context.Context, kind models.Kind, fields models.Fields) (*models.Record, error) {
	ret := _m.Called(ctx, kind, fields)

	var r0 *models.Record
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Record)
	}
	return r0, ret.Error(1)
}

type MockRecordService_Create_Call struct {
	*mock.Call
}

func (_e *MockRecordService_Expecter) Create(ctx interface{}, kind interface{}, fields interface{}) *MockRecordService_Create_Call {
	return &MockRecordService_Create_Call{Call: _e.mock.On("Create", ctx, kind, fields)}
}

func (_c *MockRecordService_Create_Call) Return(_a0 *models.Record, _a1 error) *MockRecordService_Create_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// Update provides a mock function with given fields: ctx, kind, id, fields
func (_m *MockRecordService) Update(ctx context.Context, kind models.Kind, id int64, fields models.Fields) (*models.Record, error) {
	ret := _m.Called(ctx, kind, id, fields)

	var r0 *models.Record
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Record)
	}
	return r0, ret.Error(1)
}

type MockRecordService_Update_Call struct {
	*mock.Call
}

func (_e *MockRecordService_Expecter) Update(ctx interface{}, kind interface{}, id interface{}, fields interface{}) *MockRecordService_Update_Call {
	return &MockRecordService_Update_Call{Call: _e.mock.On("Update", ctx, kind, id, fields)}
}

func (_c *MockRecordService_Update_Call) Return(_a0 *models.Record, _a1 error) *MockRecordService_Update_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// Delete provides a mock function with given fields: ctx, kind, id
func (_m *MockRecordService) Delete(ctx context.Context, kind models.Kind, id int64) error {
	ret := _m.Called(ctx, kind, id)
	return ret.Error(0)
}

type MockRecordService_Delete_Call struct {
	*mock.Call
}

func (_e *MockRecordService_Expecter) Delete(ctx interface{}, kind interface{}, id interface{}) *MockRecordService_Delete_Call {
	return &MockRecordService_Delete_Call{Call: _e.mock.On("Delete", ctx, kind, id)}
}

func (_c *MockRecordService_Delete_Call) Return(_a0 error) *MockRecordService_Delete_Call {
	_c.Call.Return(_a0)
	return _c
}

// NewMockRecordService creates a new instance of MockRecordService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockRecordService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRecordService {
	m := &MockRecordService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
