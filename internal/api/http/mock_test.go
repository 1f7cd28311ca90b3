package http

import (
	"context"

	"github.com/melihemreguler/urlshortener/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockURLService struct {
	mock.Mock
}

func (s *MockURLService) CreateAndSave(ctx context.Context, longURL string) (string, error) {
	args := s.Called(ctx, longURL)
	return args.String(0), args.Error(1)
}

func (s *MockURLService) Resolve(ctx context.Context, shortCode string) (string, error) {
	args := s.Called(ctx, shortCode)
	return args.String(0), args.Error(1)
}

func (s *MockURLService) List(ctx context.Context, page, size int) (*models.Page, error) {
	args := s.Called(ctx, page, size)
	result, _ := args.Get(0).(*models.Page)
	return result, args.Error(1)
}

func (s *MockURLService) Search(ctx context.Context, term string, page, size int) (*models.Page, error) {
	args := s.Called(ctx, term, page, size)
	result, _ := args.Get(0).(*models.Page)
	return result, args.Error(1)
}

func (s *MockURLService) Delete(ctx context.Context, id int64) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}
