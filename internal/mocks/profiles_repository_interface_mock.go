// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/repository"
)

type MockProfilesRepositoryInterface struct {
	mock.Mock
}

func (m *MockProfilesRepositoryInterface) GetActive(ctx context.Context) (*repository.AllocationProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AllocationProfile), args.Error(1)
}

func (m *MockProfilesRepositoryInterface) Create(ctx context.Context, profile *repository.AllocationProfile) (*repository.AllocationProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AllocationProfile), args.Error(1)
}

func (m *MockProfilesRepositoryInterface) Update(ctx context.Context, id primitive.ObjectID, profile *repository.AllocationProfile, updatedBy string) (*repository.AllocationProfile, error) {
	args := m.Called(ctx, id, profile, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AllocationProfile), args.Error(1)
}

func (m *MockProfilesRepositoryInterface) List(ctx context.Context, limit int) ([]repository.AllocationProfile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AllocationProfile), args.Error(1)
}
