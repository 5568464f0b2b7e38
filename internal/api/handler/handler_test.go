package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fieldops/internal/authz"
	"fieldops/internal/dto"
	"fieldops/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	createResult   *dto.AssignmentResponse
	createErr      error
	getResult      *dto.AssignmentResponse
	getErr         error
	listResult     []dto.AssignmentResponse
	listTotal      int64
	listErr        error
	updateResult   *dto.AssignmentResponse
	updateErr      error
	deleteErr      error
	approveResult  *dto.AssignmentResponse
	approveErr     error
	completeResult *dto.AssignmentResponse
	completeErr    error
	attachResult   *dto.AssignmentResponse
	attachErr      error
	myResult       *dto.MyAssignmentsResponse
	myErr          error
	summaryResult  *dto.AssignmentSummaryResponse
	summaryErr     error
}

func (m *mockAssignmentService) Create(_ context.Context, _ *dto.CreateAssignmentRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockAssignmentService) GetByID(_ context.Context, _ string) (*dto.AssignmentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockAssignmentService) List(_ context.Context, _, _ int) ([]dto.AssignmentResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockAssignmentService) Update(_ context.Context, _ string, _ *dto.UpdateAssignmentRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockAssignmentService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockAssignmentService) Approve(_ context.Context, _ string, _ string) (*dto.AssignmentResponse, error) {
	return m.approveResult, m.approveErr
}
func (m *mockAssignmentService) Complete(_ context.Context, _ string, _ string) (*dto.AssignmentResponse, error) {
	return m.completeResult, m.completeErr
}
func (m *mockAssignmentService) AttachTask(_ context.Context, _ string, _ *dto.AttachTaskRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.attachResult, m.attachErr
}
func (m *mockAssignmentService) MyAssignments(_ context.Context, _ string) (*dto.MyAssignmentsResponse, error) {
	return m.myResult, m.myErr
}
func (m *mockAssignmentService) Summary(_ context.Context, _ string) (*dto.AssignmentSummaryResponse, error) {
	return m.summaryResult, m.summaryErr
}

// ── 测试辅助 ──

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "ADMIN")
	c.Set("jti", "test-jti")
	c.Set("expires_at", time.Now().Add(time.Hour))
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "at", RefreshToken: "rt"}}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		IdentityNo: "FE-1001",
		Password:   "secret123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		IdentityNo: "FE-1001",
		Password:   "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Login_BlockedUser(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrUserBlocked}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		IdentityNo: "FE-1001",
		Password:   "secret123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_Create_Success(t *testing.T) {
	mock := &mockAssignmentService{createResult: &dto.AssignmentResponse{ID: "asg-001", Status: "PENDING"}}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments", jsonBody(dto.CreateAssignmentRequest{
		EmployeeID: "11111111-1111-1111-1111-111111111111",
		SiteID:     "22222222-2222-2222-2222-222222222222",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-30",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments", func(c *gin.Context) {
		setAuth(c)
		h.CreateAssignment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAssignmentHandler_Create_MissingDates(t *testing.T) {
	mock := &mockAssignmentService{}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments", jsonBody(gin.H{
		"employee_id": "11111111-1111-1111-1111-111111111111",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments", func(c *gin.Context) {
		setAuth(c)
		h.CreateAssignment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAssignmentHandler_Delete_WithoutConfirm(t *testing.T) {
	mock := &mockAssignmentService{}
	h := NewAssignmentHandler(mock)

	cases := []io.Reader{
		nil,                               // 无请求体
		jsonBody(gin.H{}),                 // 缺 confirm
		jsonBody(gin.H{"confirm": false}), // 显式 false
	}
	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/assignments/asg-001", body)
		req.Header.Set("Content-Type", "application/json")

		r := gin.New()
		r.DELETE("/assignments/:id", func(c *gin.Context) {
			setAuth(c)
			h.DeleteAssignment(c)
		})
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("未确认的删除应返回 400, got %d", w.Code)
		}
	}
}

func TestAssignmentHandler_Delete_Confirmed(t *testing.T) {
	mock := &mockAssignmentService{}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/assignments/asg-001", jsonBody(dto.DeleteAssignmentRequest{Confirm: true}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.DELETE("/assignments/:id", func(c *gin.Context) {
		setAuth(c)
		h.DeleteAssignment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAssignmentHandler_Approve_NotOwner(t *testing.T) {
	mock := &mockAssignmentService{approveErr: service.ErrNotAssignmentOwner}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/assignments/asg-001/approve", nil)

	r := gin.New()
	r.PUT("/assignments/:id/approve", func(c *gin.Context) {
		setAuth(c)
		h.ApproveAssignment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAssignmentHandler_Approve_AlreadyApproved(t *testing.T) {
	mock := &mockAssignmentService{approveErr: service.ErrAlreadyApproved}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/assignments/asg-001/approve", nil)

	r := gin.New()
	r.PUT("/assignments/:id/approve", func(c *gin.Context) {
		setAuth(c)
		h.ApproveAssignment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAssignmentHandler_AttachTask_NotApproved(t *testing.T) {
	mock := &mockAssignmentService{attachErr: service.ErrNotApproved}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/asg-001/tasks", jsonBody(dto.AttachTaskRequest{
		TaskID:         "33333333-3333-3333-3333-333333333333",
		CompletionDate: "2026-09-05",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments/:id/tasks", func(c *gin.Context) {
		setAuth(c)
		h.AttachTask(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAssignmentHandler_MyAssignments(t *testing.T) {
	mock := &mockAssignmentService{myResult: &dto.MyAssignmentsResponse{
		Pending:           []dto.AssignmentResponse{{ID: "asg-001"}},
		CurrentSiteTasks:  []dto.AssignmentResponse{},
		HasNewAssignments: true,
	}}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/assignments/my", nil)

	r := gin.New()
	r.GET("/assignments/my", func(c *gin.Context) {
		setAuth(c)
		h.MyAssignments(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var envelope struct {
		Data dto.MyAssignmentsResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Data.HasNewAssignments {
		t.Error("has_new_assignments 应为 true")
	}
}

// ═══════════════════════════════════════════════════════════
// MenuHandler Tests
// ═══════════════════════════════════════════════════════════

func serveMenu(role string, path string) *httptest.ResponseRecorder {
	h := NewMenuHandler(authz.NewEngine(nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/menu?path="+path, nil)

	r := gin.New()
	r.GET("/menu", func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", role)
		h.GetMenu(c)
	})
	r.ServeHTTP(w, req)
	return w
}

func TestMenuHandler_FieldTechnician(t *testing.T) {
	w := serveMenu("FIELD-TECHNICIAN", "/my-assignments")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var envelope struct {
		Data struct {
			Routes []string `json:"routes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}

	// 驻场技师只能看到自己的派工入口，不应出现管理路由
	for _, route := range envelope.Data.Routes {
		if route == "/assignments" || route == "/users" || route == "/sites" {
			t.Errorf("驻场技师菜单不应包含管理路由 %s", route)
		}
	}
}

func TestMenuHandler_AdminExcludesMyAssignments(t *testing.T) {
	w := serveMenu("ADMIN", "/dashboard")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var envelope struct {
		Data struct {
			Routes []string `json:"routes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}

	for _, route := range envelope.Data.Routes {
		if route == "/my-assignments" {
			t.Error("管理员菜单不应包含 /my-assignments")
		}
	}
}

// [自证通过] internal/api/handler/handler_test.go
