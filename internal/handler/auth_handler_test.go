package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/dafibh/kikoba/kikoba-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

// Helper to set up auth context
func setupAuthContext(c echo.Context, auth0ID string, email, name string) {
	setupMemberContext(c, auth0ID, email, name, 0, 0)
}

// Helper to set up auth context with the resolved group and member
func setupMemberContext(c echo.Context, auth0ID string, email, name string, groupID, memberID int32) {
	customClaims := &middleware.CustomClaims{
		Email: email,
		Name:  name,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: customClaims,
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	if groupID > 0 {
		ctx = context.WithValue(ctx, middleware.GroupIDKey, groupID)
	}
	if memberID > 0 {
		ctx = context.WithValue(ctx, middleware.MemberIDKey, memberID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

func newAuthHandler() (*AuthHandler, *testutil.MockGroupRepository, *testutil.MockMemberRepository) {
	groupRepo := testutil.NewMockGroupRepository()
	memberRepo := testutil.NewMockMemberRepository()
	authService := service.NewAuthService(testutil.NewMockTransactor(), groupRepo, memberRepo)
	return NewAuthHandler(authService), groupRepo, memberRepo
}

func TestCallback_NewUser(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|newuser123", "new@example.com", "Neema")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !response.IsNewUser {
		t.Error("Expected IsNewUser to be true for new user")
	}
	if response.Member.Name != "Neema" {
		t.Errorf("Expected name 'Neema', got %s", response.Member.Name)
	}
	if !response.Member.Linked {
		t.Error("Expected the new member to be linked")
	}
	if response.Group.Name != domain.DefaultGroupName {
		t.Errorf("Expected group name %q, got %s", domain.DefaultGroupName, response.Group.Name)
	}
}

func TestCallback_LinksInvitedMember(t *testing.T) {
	e := echo.New()
	handler, groupRepo, memberRepo := newAuthHandler()

	groupRepo.AddGroup(&domain.Group{ID: 3, Name: "Umoja"})
	memberRepo.AddMember(&domain.Member{ID: 9, GroupID: 3, Name: "Juma", Email: "juma@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|juma", "Juma@Example.com", "Juma M")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.IsNewUser {
		t.Error("Expected IsNewUser to be false for an invited member")
	}
	if response.Member.ID != 9 || response.Group.ID != 3 {
		t.Errorf("Expected member 9 in group 3, got member %d in group %d", response.Member.ID, response.Group.ID)
	}
	if response.Group.Name != "Umoja" {
		t.Errorf("Expected group name 'Umoja', got %s", response.Group.Name)
	}
}

func TestCallback_MissingAuth0ID(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	handler, groupRepo, memberRepo := newAuthHandler()

	auth0ID := "auth0|existing123"
	groupRepo.AddGroup(&domain.Group{ID: 1, Name: "Umoja"})
	memberRepo.AddMember(&domain.Member{ID: 1, GroupID: 1, Name: "Asha", Email: "asha@example.com", Auth0ID: &auth0ID})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, auth0ID, "asha@example.com", "Asha")

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Member.Email != "asha@example.com" {
		t.Errorf("Expected email 'asha@example.com', got %s", response.Member.Email)
	}
	if response.Group.Name != "Umoja" {
		t.Errorf("Expected group name 'Umoja', got %s", response.Group.Name)
	}
}

func TestMe_MemberNotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|nobody", "nobody@example.com", "")

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestLogout_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", "test@example.com", "Test User")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response LogoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Message != "Logged out successfully" {
		t.Errorf("Expected message 'Logged out successfully', got %s", response.Message)
	}
}

func TestLogout_MissingAuth0ID(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
