package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/infrastructure/persistence/sqlite"
)

// EmployeeRepository implements port.EmployeeRepository
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) port.EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByHRIdentifier retrieves an employee by HR identifier
func (r *EmployeeRepository) GetByHRIdentifier(ctx context.Context, hrIdentifier string) (*entity.Employee, error) {
	return r.getOne(ctx, `WHERE hr_identifier = ?`, hrIdentifier)
}

func (r *EmployeeRepository) getOne(ctx context.Context, where string, arg interface{}) (*entity.Employee, error) {
	query := `
		SELECT id, hr_identifier, manager_id, department, role, created_at
		FROM employees ` + where

	var employee entity.Employee
	var managerID sql.NullString
	var role string

	err := r.getExecutor(ctx).QueryRowContext(ctx, query, arg).Scan(
		&employee.ID,
		&employee.HRIdentifier,
		&managerID,
		&employee.Department,
		&role,
		&employee.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employee", zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	employee.Role = entity.Role(role)
	if managerID.Valid {
		parsed, err := uuid.Parse(managerID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse manager_id: %w", err)
		}
		employee.ManagerID = &parsed
	}

	return &employee, nil
}

// getExecutor returns appropriate executor based on context
func (r *EmployeeRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.EmployeeRepository = (*EmployeeRepository)(nil)
