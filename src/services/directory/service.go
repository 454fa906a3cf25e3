package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

// Service is the employee directory. USER callers only see employees of their own tenant.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(db *gorm.DB, baseLog *logger.Logger) *Service {
	return &Service{db: db, log: baseLog.With("service", "DirectoryService")}
}

func (s *Service) scoped(ctx context.Context, caller models.Caller) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Employee{})
	if !caller.IsAdmin() {
		q = q.Where("user_id = ?", caller.SubjectID)
	}
	return q
}

func (s *Service) FindVisibleEmployees(ctx context.Context, caller models.Caller) ([]models.Employee, error) {
	var out []models.Employee
	if err := s.scoped(ctx, caller).Order("name ASC").Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) FindEmployee(ctx context.Context, caller models.Caller, employeeID string) (*models.Employee, error) {
	var e models.Employee
	err := s.scoped(ctx, caller).Where("id = ?", employeeID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("employee %s not found", employeeID)
		}
		return nil, apperr.Internal(err)
	}
	return &e, nil
}

// FindTenantEmployees is ADMIN-only.
func (s *Service) FindTenantEmployees(ctx context.Context, caller models.Caller, tenantID string) ([]models.Employee, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("only admins can list another tenant's employees")
	}
	var out []models.Employee
	err := s.db.WithContext(ctx).Where("user_id = ?", tenantID).Order("name ASC").Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) FindUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

// CreateEmployee ผูกพนักงานกับ tenant ของผู้เรียก (ADMIN กำหนด userId เองได้)
func (s *Service) CreateEmployee(ctx context.Context, caller models.Caller, e *models.Employee) (*models.Employee, error) {
	if !caller.IsAdmin() {
		owner := caller.SubjectID
		e.UserID = &owner
	}
	if e.UserID != nil && *e.UserID == "" {
		e.UserID = nil
	}
	if e.UserID != nil {
		if _, err := s.FindUser(ctx, *e.UserID); err != nil {
			return nil, err
		}
	}
	e.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("employee created", "employee_id", e.ID)
	return e, nil
}

// ListEmployees แสดงรายชื่อพนักงานแบบแบ่งหน้า (ค้นหาจากชื่อหรือตำแหน่ง)
func (s *Service) ListEmployees(ctx context.Context, caller models.Caller, params models.PaginationParams) (*models.PaginatedResponse, error) {
	params.Normalize("name", "position", "created_at")

	query := func() *gorm.DB {
		q := s.scoped(ctx, caller)
		if params.Search != "" {
			like := "%" + strings.ToLower(params.Search) + "%"
			q = q.Where("(LOWER(name) LIKE ? OR LOWER(position) LIKE ?)", like, like)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	out := []models.Employee{}
	if err := query().Order(params.OrderClause()).Offset(params.GetSkip()).Limit(params.Limit).Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return models.NewPaginatedResponse(out, total, params), nil
}
