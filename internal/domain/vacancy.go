package domain

import (
	"context"
	"time"
)

type Vacancy struct {
	ID           int       `json:"id"`
	Title        string    `json:"title" validate:"required,min=3,max=255,no_emoji"`
	Description  string    `json:"description" validate:"max=2000"`
	CreationDate time.Time `json:"creation_date"`
	Visible      bool      `json:"visible"`
	CityID       int       `json:"city_id" validate:"gte=0"`
	FileID       int       `json:"file_id"`
}

func (v Vacancy) GetID() int { return v.ID }

func (v Vacancy) WithID(id int) Vacancy {
	v.ID = id
	return v
}

func (v Vacancy) GetFileID() int { return v.FileID }

func (v Vacancy) WithFileID(fileID int) Vacancy {
	v.FileID = fileID
	return v
}

type VacancyRepository = AttachmentRepository[Vacancy]

type VacancyUsecase interface {
	Save(ctx context.Context, vacancy Vacancy, file FileDto) (Vacancy, error)
	Update(ctx context.Context, vacancy Vacancy, file FileDto) (bool, error)
	DeleteByID(ctx context.Context, id int) (bool, error)
	FindByID(ctx context.Context, id int) (*Vacancy, error)
	FindAll(ctx context.Context) ([]Vacancy, error)
}
