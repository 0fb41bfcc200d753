package domain

import (
	"context"
	"errors"
)

type ListItemsResponse struct {
	Items []Item `json:"items"`
}

type Service interface {
	ListActive(ctx context.Context) (ListItemsResponse, error)
	GetByID(ctx context.Context, id string) (Item, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
