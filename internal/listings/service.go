package listings

import (
	"context"

	"cpu-listings/internal/models"
)

// Source provides normalized listings. Both request handlers depend on it.
type Source interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
}

// Service fetches listings and converts them to euros.
type Service struct {
	fetcher *Fetcher
}

func NewService(querier Querier) (*Service, error) {
	fetcher, err := NewFetcher(querier)
	if err != nil {
		return nil, err
	}
	return &Service{fetcher: fetcher}, nil
}

func (s *Service) ListListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(rows), nil
}
