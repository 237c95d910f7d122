package domain

import (
	"context"
	"time"
)

type Candidate struct {
	ID           int       `json:"id"`
	Name         string    `json:"name" validate:"required,min=2,max=255,valid_name,no_emoji"`
	Description  string    `json:"description" validate:"max=2000"`
	CreationDate time.Time `json:"creation_date"`
	CityID       int       `json:"city_id" validate:"gte=0"`
	FileID       int       `json:"file_id"`
}

func (c Candidate) GetID() int { return c.ID }

func (c Candidate) WithID(id int) Candidate {
	c.ID = id
	return c
}

func (c Candidate) GetFileID() int { return c.FileID }

func (c Candidate) WithFileID(fileID int) Candidate {
	c.FileID = fileID
	return c
}

type CandidateRepository = AttachmentRepository[Candidate]

type CandidateUsecase interface {
	Save(ctx context.Context, candidate Candidate, file FileDto) (Candidate, error)
	Update(ctx context.Context, candidate Candidate, file FileDto) (bool, error)
	DeleteByID(ctx context.Context, id int) (bool, error)
	FindByID(ctx context.Context, id int) (*Candidate, error)
	FindAll(ctx context.Context) ([]Candidate, error)
}
