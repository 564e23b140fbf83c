package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/repository"
)

// CategoryService manages the ticket category taxonomy. Listing is open to
// any authenticated user; edits are admin only.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.TicketCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.TicketCategory{}
	}
	return categories, nil
}

// Create adds a category. Admin only.
func (s *CategoryService) Create(ctx context.Context, actor *domain.User, name string) (*domain.TicketCategory, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can manage categories")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.NewValidationError("name required", map[string]any{"field": "name"})
	}
	category := &domain.TicketCategory{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Rename changes a category's name. Admin only.
func (s *CategoryService) Rename(ctx context.Context, actor *domain.User, id, name string) (*domain.TicketCategory, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can manage categories")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.NewValidationError("name required", map[string]any{"field": "name"})
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("category")
		}
		return nil, err
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category; tickets referencing it keep a null category.
func (s *CategoryService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !actor.IsAdmin() {
		return apperr.NewDenied("only admins can manage categories")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NewNotFound("category")
		}
		return err
	}
	return nil
}
