package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

// DirectoryService manages the department and officer reference data.
type DirectoryService struct {
	store  storage.DirectoryStore
	logger *zap.SugaredLogger
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(store storage.DirectoryStore, logger *zap.SugaredLogger) *DirectoryService {
	return &DirectoryService{store: store, logger: logger}
}

// ListDepartments returns the active departments.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]models.DepartmentRecord, error) {
	depts, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return depts, nil
}

// CreateDepartment adds a directory entry.
func (s *DirectoryService) CreateDepartment(ctx context.Context, name, description string, rawCategories []string) (*models.DepartmentRecord, error) {
	if name == "" {
		return nil, Validationf("department name is required")
	}
	categories, err := parseCategories(rawCategories)
	if err != nil {
		return nil, err
	}

	dept := &models.DepartmentRecord{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Categories:  categories,
		IsActive:    true,
	}
	if err := s.store.CreateDepartment(ctx, dept); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}

	s.logger.Infow("Department created", "id", dept.ID, "name", name)
	return dept, nil
}

// DepartmentUpdate is a partial directory edit; nil fields are untouched.
type DepartmentUpdate struct {
	Name        *string
	Description *string
	Categories  []string
	IsActive    *bool
}

// UpdateDepartment applies a partial edit to a department.
func (s *DirectoryService) UpdateDepartment(ctx context.Context, id uuid.UUID, in DepartmentUpdate) error {
	dept, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: department %s", ErrNotFound, id)
		}
		return fmt.Errorf("load department: %w", err)
	}

	if in.Name != nil {
		dept.Name = *in.Name
	}
	if in.Description != nil {
		dept.Description = *in.Description
	}
	if in.Categories != nil {
		categories, err := parseCategories(in.Categories)
		if err != nil {
			return err
		}
		dept.Categories = categories
	}
	if in.IsActive != nil {
		dept.IsActive = *in.IsActive
	}

	if err := s.store.UpdateDepartment(ctx, dept); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// ListOfficers returns the active officers.
func (s *DirectoryService) ListOfficers(ctx context.Context) ([]models.Officer, error) {
	officers, err := s.store.ListOfficers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}
	return officers, nil
}

// CreateOfficer adds a staff entry to a department.
func (s *DirectoryService) CreateOfficer(ctx context.Context, name, email, phone string, departmentID uuid.UUID) (*models.Officer, error) {
	if name == "" || email == "" {
		return nil, Validationf("officer name and email are required")
	}
	if _, err := s.store.GetDepartment(ctx, departmentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: department %s", ErrNotFound, departmentID)
		}
		return nil, fmt.Errorf("load department: %w", err)
	}

	officer := &models.Officer{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	if err := s.store.CreateOfficer(ctx, officer); err != nil {
		return nil, fmt.Errorf("create officer: %w", err)
	}

	s.logger.Infow("Officer created", "id", officer.ID, "name", name)
	return officer, nil
}

// OfficerUpdate is a partial staff edit; nil fields are untouched.
type OfficerUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	DepartmentID *uuid.UUID
	IsActive     *bool
}

// UpdateOfficer applies a partial edit to an officer.
func (s *DirectoryService) UpdateOfficer(ctx context.Context, id uuid.UUID, in OfficerUpdate) error {
	officer, err := s.store.GetOfficer(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: officer %s", ErrNotFound, id)
		}
		return fmt.Errorf("load officer: %w", err)
	}

	if in.Name != nil {
		officer.Name = *in.Name
	}
	if in.Email != nil {
		officer.Email = *in.Email
	}
	if in.Phone != nil {
		officer.Phone = *in.Phone
	}
	if in.DepartmentID != nil {
		officer.DepartmentID = *in.DepartmentID
	}
	if in.IsActive != nil {
		officer.IsActive = *in.IsActive
	}

	if err := s.store.UpdateOfficer(ctx, officer); err != nil {
		return fmt.Errorf("update officer: %w", err)
	}
	return nil
}

func parseCategories(raw []string) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(raw))
	for _, r := range raw {
		c, err := models.ParseCategory(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}
