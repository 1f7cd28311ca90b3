package service

import (
	"context"

	"github.com/melihemreguler/urlshortener/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Create(ctx context.Context, shortCode, longURL string) (*models.URL, error) {
	args := r.Called(ctx, shortCode, longURL)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) GetByLongURL(ctx context.Context, longURL string) (*models.URL, error) {
	args := r.Called(ctx, longURL)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) IncrementAccessCount(ctx context.Context, shortCode string) (*models.URL, error) {
	args := r.Called(ctx, shortCode)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) List(ctx context.Context, offset, limit int) ([]*models.URL, int64, error) {
	args := r.Called(ctx, offset, limit)
	urls, _ := args.Get(0).([]*models.URL)
	total, _ := args.Get(1).(int64)
	return urls, total, args.Error(2)
}

func (r *MockURLRepository) Search(ctx context.Context, term string, offset, limit int) ([]*models.URL, int64, error) {
	args := r.Called(ctx, term, offset, limit)
	urls, _ := args.Get(0).([]*models.URL)
	total, _ := args.Get(1).(int64)
	return urls, total, args.Error(2)
}

func (r *MockURLRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockCodeGenerator struct {
	mock.Mock
}

func (g *MockCodeGenerator) Generate() (string, error) {
	args := g.Called()
	return args.String(0), args.Error(1)
}
