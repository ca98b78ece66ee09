// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/repository"
)

type MockAllocationsRepositoryInterface struct {
	mock.Mock
}

func (m *MockAllocationsRepositoryInterface) Create(ctx context.Context, record *repository.AllocationRecord) (*repository.AllocationRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AllocationRecord), args.Error(1)
}

func (m *MockAllocationsRepositoryInterface) FindByID(ctx context.Context, id primitive.ObjectID) (*repository.AllocationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AllocationRecord), args.Error(1)
}

func (m *MockAllocationsRepositoryInterface) List(ctx context.Context, status string, limit, skip int) ([]repository.AllocationRecord, error) {
	args := m.Called(ctx, status, limit, skip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AllocationRecord), args.Error(1)
}

func (m *MockAllocationsRepositoryInterface) UpdateScanned(ctx context.Context, id primitive.ObjectID, scanned model.AllocationMatrix) (*repository.AllocationRecord, error) {
	args := m.Called(ctx, id, scanned)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AllocationRecord), args.Error(1)
}

func (m *MockAllocationsRepositoryInterface) Close(ctx context.Context, id primitive.ObjectID) (*repository.AllocationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AllocationRecord), args.Error(1)
}
