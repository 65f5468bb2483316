package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type PersonCreate struct {
	FullName     string     `json:"full_name" binding:"required"`
	Username     *string    `json:"username"`
	Email        *string    `json:"email"`
	Company      *string    `json:"company"`
	DepartmentID *uuid.UUID `json:"department_id"`
	ReportsToID  *uuid.UUID `json:"reports_to_id"`
}

type PersonUpdate struct {
	FullName     *string    `json:"full_name"`
	Username     *string    `json:"username"`
	Email        *string    `json:"email"`
	Company      *string    `json:"company"`
	DepartmentID *uuid.UUID `json:"department_id"`
	ReportsToID  *uuid.UUID `json:"reports_to_id"`
}

type PersonService struct {
	db    *gorm.DB
	repos *repos.Repos
	log   *logger.Logger
}

func NewPersonService(db *gorm.DB, r *repos.Repos, baseLog *logger.Logger) *PersonService {
	return &PersonService{db: db, repos: r, log: baseLog.With("service", "PersonService")}
}

func (s *PersonService) List(ctx context.Context, filter repos.PersonListFilter) ([]*types.Person, int64, error) {
	dbc := dbctx.New(ctx, nil)
	items, total, err := s.repos.Person.List(dbc, filter)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return items, total, nil
}

func (s *PersonService) Get(ctx context.Context, id uuid.UUID) (*types.Person, error) {
	dbc := dbctx.New(ctx, nil)
	person, err := s.repos.Person.GetByID(dbc, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if person == nil {
		return nil, apierr.NotFound("Person not found")
	}
	return person, nil
}

func (s *PersonService) Create(ctx context.Context, in PersonCreate) (*types.Person, error) {
	person := &types.Person{
		FullName:     in.FullName,
		Username:     in.Username,
		Email:        in.Email,
		Company:      in.Company,
		DepartmentID: in.DepartmentID,
		ReportsToID:  in.ReportsToID,
	}
	dbc := dbctx.New(ctx, nil)
	if err := s.repos.Person.Create(dbc, person); err != nil {
		return nil, apierr.Internal(err)
	}
	return person, nil
}

func (s *PersonService) Update(ctx context.Context, id uuid.UUID, in PersonUpdate) (*types.Person, error) {
	var updated *types.Person
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		person, err := s.repos.Person.GetByID(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if person == nil {
			return apierr.NotFound("Person not found")
		}

		if in.FullName != nil {
			person.FullName = *in.FullName
		}
		if in.Username != nil {
			person.Username = in.Username
		}
		if in.Email != nil {
			person.Email = in.Email
		}
		if in.Company != nil {
			person.Company = in.Company
		}
		if in.DepartmentID != nil {
			person.DepartmentID = in.DepartmentID
		}
		if in.ReportsToID != nil {
			person.ReportsToID = in.ReportsToID
		}

		if err := s.repos.Person.Update(dbc, person); err != nil {
			return apierr.Internal(err)
		}
		updated = person
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PersonService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.New(ctx, nil)
	person, err := s.repos.Person.GetByID(dbc, id)
	if err != nil {
		return apierr.Internal(err)
	}
	if person == nil {
		return apierr.NotFound("Person not found")
	}
	if err := s.repos.Person.Delete(dbc, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// AssignmentHistory returns the person's assignments newest first, each with
// its asset.
func (s *PersonService) AssignmentHistory(ctx context.Context, id uuid.UUID) ([]*types.Assignment, error) {
	dbc := dbctx.New(ctx, nil)
	person, err := s.repos.Person.GetByID(dbc, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if person == nil {
		return nil, apierr.NotFound("Person not found")
	}
	history, err := s.repos.Assignment.GetByPersonID(dbc, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return history, nil
}
