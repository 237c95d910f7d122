package domain

import "context"

type City struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c City) GetID() int { return c.ID }

func (c City) WithID(id int) City {
	c.ID = id
	return c
}

type CityRepository = Repository[City]

type CityUsecase interface {
	FindAll(ctx context.Context) ([]City, error)
	FindByID(ctx context.Context, id int) (*City, error)
}
