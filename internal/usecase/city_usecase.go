package usecase

import (
	"context"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
)

type cityUsecase struct {
	repo domain.CityRepository
}

func NewCityUsecase(repo domain.CityRepository) domain.CityUsecase {
	return &cityUsecase{repo: repo}
}

func (u *cityUsecase) FindAll(ctx context.Context) ([]domain.City, error) {
	cities, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return cities, nil
}

func (u *cityUsecase) FindByID(ctx context.Context, id int) (*domain.City, error) {
	city, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return city, nil
}
