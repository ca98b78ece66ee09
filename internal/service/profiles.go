package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/repository"
)

// ErrRepositoryNotConfigured is returned when the repository is not configured.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// ProfileService provides allocation profile operations.
type ProfileService interface {
	GetActive(ctx context.Context) (*repository.AllocationProfile, error)
	Create(ctx context.Context, profile *repository.AllocationProfile) (*repository.AllocationProfile, error)
	Update(ctx context.Context, id primitive.ObjectID, profile *repository.AllocationProfile, updatedBy string) (*repository.AllocationProfile, error)
	List(ctx context.Context, limit int) ([]repository.AllocationProfile, error)
}

// ProfileServiceImpl implements ProfileService.
type ProfileServiceImpl struct {
	profilesRepo repository.ProfilesRepositoryInterface
}

// NewProfileService creates a new profile service.
func NewProfileService(profilesRepo repository.ProfilesRepositoryInterface) ProfileService {
	if profilesRepo == nil {
		return &ProfileServiceImpl{}
	}
	return &ProfileServiceImpl{
		profilesRepo: profilesRepo,
	}
}

func (s *ProfileServiceImpl) GetActive(ctx context.Context) (*repository.AllocationProfile, error) {
	if s.profilesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.profilesRepo.GetActive(ctx)
}

func (s *ProfileServiceImpl) Create(ctx context.Context, profile *repository.AllocationProfile) (*repository.AllocationProfile, error) {
	if s.profilesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.profilesRepo.Create(ctx, profile)
}

func (s *ProfileServiceImpl) Update(ctx context.Context, id primitive.ObjectID, profile *repository.AllocationProfile, updatedBy string) (*repository.AllocationProfile, error) {
	if s.profilesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.profilesRepo.Update(ctx, id, profile, updatedBy)
}

func (s *ProfileServiceImpl) List(ctx context.Context, limit int) ([]repository.AllocationProfile, error) {
	if s.profilesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.profilesRepo.List(ctx, limit)
}
