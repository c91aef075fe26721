package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/dafibh/kikoba/kikoba-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newMemberHandler(store *testutil.MockAvatarStore) (*MemberHandler, *testutil.MockMemberRepository) {
	members := testutil.NewMockMemberRepository()
	members.AddMember(&domain.Member{ID: 1, GroupID: 1, Name: "Asha", Email: "asha@example.com", Dedication: decimal.NewFromInt(20000)})
	members.AddMember(&domain.Member{ID: 2, GroupID: 2, Name: "Outsider", Email: "out@example.com"})

	avatars := service.NewAvatarService(nil)
	if store != nil {
		avatars = service.NewAvatarService(store)
	}
	return NewMemberHandler(service.NewMemberService(members, avatars)), members
}

// newAvatarContext builds a multipart upload of a PNG of the given size
func newAvatarContext(t *testing.T, width, height int) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var picture bytes.Buffer
	if err := png.Encode(&picture, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "avatar.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(picture.Bytes()); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members/me/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupMemberContext(c, "auth0|asha", "asha@example.com", "Asha", 1, 1)
	return c, rec
}

func TestAddMember_Success(t *testing.T) {
	handler, members := newMemberHandler(nil)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/members", `{"name": " Baraka ", "email": "Baraka@Example.com", "dedication": "30000"}`)
	if err := handler.AddMember(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response MemberResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Baraka" || response.Email != "baraka@example.com" {
		t.Errorf("Expected trimmed name and lowercased email, got %q %q", response.Name, response.Email)
	}
	if response.GroupID != 1 || response.Dedication != 30000 {
		t.Errorf("Expected group 1 with dedication 30000, got %d and %d", response.GroupID, response.Dedication)
	}
	if response.Linked {
		t.Error("Expected a new member to be unlinked until they sign in")
	}
	if len(members.Members) != 3 {
		t.Errorf("Expected 3 members stored, got %d", len(members.Members))
	}
}

func TestAddMember_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"missing name", `{"email": "x@example.com"}`, http.StatusBadRequest, "name"},
		{"bad email", `{"name": "Baraka", "email": "not-an-email"}`, http.StatusBadRequest, "email"},
		{"negative dedication", `{"name": "Baraka", "dedication": "-5"}`, http.StatusBadRequest, "dedication"},
		{"non numeric dedication", `{"name": "Baraka", "dedication": "lots"}`, http.StatusBadRequest, "dedication"},
		{"duplicate email", `{"name": "Asha Two", "email": "ASHA@example.com"}`, http.StatusConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newMemberHandler(nil)

			c, rec := newJSONContext(http.MethodPost, "/api/v1/members", tt.body)
			if err := handler.AddMember(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("Expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.field != "" {
				problem := decodeProblem(t, rec)
				if len(problem.Errors) == 0 || problem.Errors[0].Field != tt.field {
					t.Errorf("Expected error on field %s, got %+v", tt.field, problem.Errors)
				}
			}
		})
	}
}

func TestGetMembers_OnlyOwnGroup(t *testing.T) {
	handler, _ := newMemberHandler(nil)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/members", "")
	if err := handler.GetMembers(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []MemberResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 || response[0].Name != "Asha" {
		t.Errorf("Expected only Asha, got %+v", response)
	}
}

func TestGetMember(t *testing.T) {
	tests := []struct {
		id     string
		status int
	}{
		{"1", http.StatusOK},
		{"2", http.StatusNotFound},
		{"99", http.StatusNotFound},
		{"x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			handler, _ := newMemberHandler(nil)

			c, rec := newJSONContext(http.MethodGet, "/api/v1/members/"+tt.id, "")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)
			if err := handler.GetMember(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	handler, members := newMemberHandler(nil)

	c, rec := newJSONContext(http.MethodPut, "/api/v1/members/me", `{"dedication": "25000"}`)
	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if members.Members[1].Name != "Asha" {
		t.Errorf("Expected name to stay Asha, got %s", members.Members[1].Name)
	}
	if !members.Members[1].Dedication.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("Expected dedication 25000, got %s", members.Members[1].Dedication)
	}

	c, rec = newJSONContext(http.MethodPut, "/api/v1/members/me", `{"name": "   "}`)
	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a blank name, got %d", rec.Code)
	}
}

func TestUploadAvatar_StorageNotConfigured(t *testing.T) {
	handler, _ := newMemberHandler(nil)

	c, rec := newAvatarContext(t, 64, 64)
	if err := handler.UploadAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadAvatar_Success(t *testing.T) {
	store := testutil.NewMockAvatarStore()
	handler, members := newMemberHandler(store)

	c, rec := newAvatarContext(t, 120, 90)
	if err := handler.UploadAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response AvatarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !strings.HasPrefix(response.URL, "https://storage.test/") || !strings.HasPrefix(response.ThumbURL, "https://storage.test/") {
		t.Errorf("Expected presigned URLs, got %+v", response)
	}
	if members.Members[1].PictureObject == nil {
		t.Error("Expected the member picture to be stored")
	}
	if len(store.Paths()) == 0 {
		t.Error("Expected objects in the store")
	}

	c, rec = newJSONContext(http.MethodGet, "/api/v1/members/1/avatar", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := handler.GetAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestUploadAvatar_TooSmall(t *testing.T) {
	handler, _ := newMemberHandler(testutil.NewMockAvatarStore())

	c, rec := newAvatarContext(t, 20, 20)
	if err := handler.UploadAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if len(problem.Errors) == 0 || problem.Errors[0].Field != "file" {
		t.Errorf("Expected error on field file, got %+v", problem.Errors)
	}
}

func TestGetAvatar_NoPicture(t *testing.T) {
	handler, _ := newMemberHandler(testutil.NewMockAvatarStore())

	c, rec := newJSONContext(http.MethodGet, "/api/v1/members/1/avatar", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := handler.GetAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
