//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/mocks"
	"github.com/guttosm/allocation-service/internal/repository"
)

func testAllocationRecord() *repository.AllocationRecord {
	return &repository.AllocationRecord{
		ID:        primitive.NewObjectID(),
		Reference: "PO-1001",
		Buy:       model.SizeVector{"M": 8},
		Ship:      model.SizeVector{"M": 8},
		Allocation: model.AllocationMatrix{
			"Cedarhurst": {"M": 2},
			"Lakewood":   {"M": 2},
			"Warehouse":  {"M": 4},
		},
		Totals:   model.SizeVector{"M": 8},
		PackSize: 2,
		Scanned:  model.EmptyMatrix([]string{"Cedarhurst", "Lakewood", "Warehouse"}),
		Status:   repository.StatusAllocated,
	}
}

func TestAllocationRunService_Run(t *testing.T) {
	buy := model.SizeVector{"M": 8}
	ship := model.SizeVector{"M": 8}

	t.Run("runs engine and persists record", func(t *testing.T) {
		mockRepo := new(mocks.MockAllocationsRepositoryInterface)
		mockRepo.Test(t)

		var created *repository.AllocationRecord
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*repository.AllocationRecord")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*repository.AllocationRecord)
			}).
			Return(testAllocationRecord(), nil).Once()

		svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
		cfg := &EngineConfig{
			Composition:  model.SizeVector{"M": 2},
			PackSequence: []string{"Cedarhurst", "Lakewood"},
		}

		record, err := svc.Run(context.Background(), "PO-1001", buy, ship, DefaultLocations, AllocateOptions{}, cfg, "tester")
		require.NoError(t, err)
		require.NotNil(t, record)

		require.NotNil(t, created)
		assert.Equal(t, "PO-1001", created.Reference)
		assert.Equal(t, repository.StatusAllocated, created.Status)
		assert.Equal(t, 2, created.PackSize)
		assert.Equal(t, 2, created.Allocation.Get("Cedarhurst", "M"))
		assert.Equal(t, 2, created.Allocation.Get("Lakewood", "M"))
		assert.Equal(t, 4, created.Allocation.Get("Warehouse", "M"))
		assert.Equal(t, 8, created.Totals.Get("M"))
		assert.NotNil(t, created.Scanned)
		mockRepo.AssertExpectations(t)
	})

	t.Run("runs with allocator defaults when no config", func(t *testing.T) {
		mockRepo := new(mocks.MockAllocationsRepositoryInterface)
		mockRepo.Test(t)

		var created *repository.AllocationRecord
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*repository.AllocationRecord")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*repository.AllocationRecord)
			}).
			Return(testAllocationRecord(), nil).Once()

		svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
		full := model.SizeVector{"XS": 30, "S": 30, "M": 20, "L": 10, "XL": 10}

		_, err := svc.Run(context.Background(), "PO-1002", full, full, DefaultLocations, AllocateOptions{}, nil, "tester")
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, 10, created.PackSize)
		assert.Equal(t, full.Total(), created.Totals.Total())
		mockRepo.AssertExpectations(t)
	})

	t.Run("returns error without repository", func(t *testing.T) {
		svc := NewAllocationRunService(NewAllocatorService(), nil)
		_, err := svc.Run(context.Background(), "PO-1003", buy, ship, DefaultLocations, AllocateOptions{}, nil, "tester")
		assert.ErrorIs(t, err, ErrRepositoryNotConfigured)
	})
}

func TestAllocationRunService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockAllocationsRepositoryInterface, primitive.ObjectID)
		wantErr   error
	}{
		{
			name: "returns existing record",
			setupMock: func(m *mocks.MockAllocationsRepositoryInterface, id primitive.ObjectID) {
				m.On("FindByID", mock.Anything, id).Return(testAllocationRecord(), nil).Once()
			},
		},
		{
			name: "returns not found for missing record",
			setupMock: func(m *mocks.MockAllocationsRepositoryInterface, id primitive.ObjectID) {
				m.On("FindByID", mock.Anything, id).Return(nil, nil).Once()
			},
			wantErr: ErrRecordNotFound,
		},
		{
			name: "propagates repository error",
			setupMock: func(m *mocks.MockAllocationsRepositoryInterface, id primitive.ObjectID) {
				m.On("FindByID", mock.Anything, id).Return(nil, errors.New("db down")).Once()
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockAllocationsRepositoryInterface)
			mockRepo.Test(t)
			id := primitive.NewObjectID()
			tt.setupMock(mockRepo, id)

			svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
			record, err := svc.Get(context.Background(), id)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Nil(t, record)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, record)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAllocationRunService_ApplyScans(t *testing.T) {
	tests := []struct {
		name       string
		deltas     []ScanDelta
		wantErr    error
		wantUpdate model.AllocationMatrix
	}{
		{
			name:   "applies increment",
			deltas: []ScanDelta{{Location: "Cedarhurst", Size: "M", Delta: 2}},
			wantUpdate: model.AllocationMatrix{
				"Cedarhurst": {"M": 2},
				"Lakewood":   {},
				"Warehouse":  {},
			},
		},
		{
			name: "clamps decrement at zero",
			deltas: []ScanDelta{
				{Location: "Cedarhurst", Size: "M", Delta: 1},
				{Location: "Cedarhurst", Size: "M", Delta: -5},
			},
			wantUpdate: model.AllocationMatrix{
				"Cedarhurst": {"M": 0},
				"Lakewood":   {},
				"Warehouse":  {},
			},
		},
		{
			name:    "rejects scan past allocation",
			deltas:  []ScanDelta{{Location: "Cedarhurst", Size: "M", Delta: 3}},
			wantErr: ErrScanExceedsAllocation,
		},
		{
			name:    "rejects unknown location",
			deltas:  []ScanDelta{{Location: "Flagship", Size: "M", Delta: 1}},
			wantErr: ErrInvalidScan,
		},
		{
			name:    "rejects unknown size",
			deltas:  []ScanDelta{{Location: "Cedarhurst", Size: "Q", Delta: 1}},
			wantErr: ErrInvalidScan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockAllocationsRepositoryInterface)
			mockRepo.Test(t)

			record := testAllocationRecord()
			mockRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()

			if tt.wantErr == nil {
				updated := testAllocationRecord()
				updated.ID = record.ID
				updated.Scanned = tt.wantUpdate
				updated.Status = repository.StatusReceiving
				mockRepo.On("UpdateScanned", mock.Anything, record.ID, tt.wantUpdate).
					Return(updated, nil).Once()
			}

			svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
			result, status, err := svc.ApplyScans(context.Background(), record.ID, tt.deltas)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				assert.Nil(t, status)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				require.NotNil(t, status)
				assert.Equal(t, repository.StatusReceiving, result.Status)
				assert.False(t, status.Match)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAllocationRunService_Receiving(t *testing.T) {
	mockRepo := new(mocks.MockAllocationsRepositoryInterface)
	mockRepo.Test(t)

	record := testAllocationRecord()
	record.Scanned = model.AllocationMatrix{
		"Cedarhurst": {"M": 2},
		"Lakewood":   {"M": 1},
		"Warehouse":  {},
	}
	mockRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()

	svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
	status, err := svc.Receiving(context.Background(), record.ID)

	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, 3, status.ScanTotals.Get("M"))
	assert.Equal(t, 5, status.Remaining["M"])
	assert.False(t, status.Match)
	mockRepo.AssertExpectations(t)
}

func TestAllocationRunService_Close(t *testing.T) {
	t.Run("refuses to close on scan mismatch", func(t *testing.T) {
		mockRepo := new(mocks.MockAllocationsRepositoryInterface)
		mockRepo.Test(t)

		record := testAllocationRecord()
		mockRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()

		svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
		closed, err := svc.Close(context.Background(), record.ID)

		assert.ErrorIs(t, err, ErrScanMismatch)
		assert.Nil(t, closed)
		mockRepo.AssertExpectations(t)
	})

	t.Run("closes when scans match allocation", func(t *testing.T) {
		mockRepo := new(mocks.MockAllocationsRepositoryInterface)
		mockRepo.Test(t)

		record := testAllocationRecord()
		record.Scanned = model.AllocationMatrix{
			"Cedarhurst": {"M": 2},
			"Lakewood":   {"M": 2},
			"Warehouse":  {"M": 4},
		}
		mockRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil).Once()

		closedRecord := testAllocationRecord()
		closedRecord.ID = record.ID
		closedRecord.Status = repository.StatusClosed
		mockRepo.On("Close", mock.Anything, record.ID).Return(closedRecord, nil).Once()

		svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
		closed, err := svc.Close(context.Background(), record.ID)

		require.NoError(t, err)
		require.NotNil(t, closed)
		assert.Equal(t, repository.StatusClosed, closed.Status)
		mockRepo.AssertExpectations(t)
	})
}

func TestAllocationRunService_List(t *testing.T) {
	mockRepo := new(mocks.MockAllocationsRepositoryInterface)
	mockRepo.Test(t)

	mockRepo.On("List", mock.Anything, repository.StatusAllocated, 10, 0).
		Return([]repository.AllocationRecord{*testAllocationRecord()}, nil).Once()

	svc := NewAllocationRunService(NewAllocatorService(), mockRepo)
	records, err := svc.List(context.Background(), repository.StatusAllocated, 10, 0)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	mockRepo.AssertExpectations(t)
}
