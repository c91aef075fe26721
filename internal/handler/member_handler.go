package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// AddMemberRequest represents the add member request body
type AddMemberRequest struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Dedication string `json:"dedication" form:"dedication"`
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty" form:"name"`
	Dedication *string `json:"dedication,omitempty" form:"dedication"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID         int32  `json:"id"`
	GroupID    int32  `json:"groupId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Dedication int64  `json:"dedication"`
	Linked     bool   `json:"linked"`
	HasAvatar  bool   `json:"hasAvatar"`
	CreatedAt  string `json:"createdAt"`
}

// AvatarResponse represents presigned avatar URLs
type AvatarResponse struct {
	URL       string `json:"url"`
	ThumbURL  string `json:"thumbUrl"`
	ExpiresAt string `json:"expiresAt"`
}

var memberFields = map[error]string{
	domain.ErrNameRequired:            "name",
	domain.ErrNameTooLong:             "name",
	domain.ErrMemberEmailInvalid:      "email",
	domain.ErrMemberDedicationInvalid: "dedication",
}

// AddMember handles POST /api/v1/members
// @Summary Add member
// @Description Adds a member to the caller's group. They are linked when they first sign in with the same email.
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddMemberRequest true "Member"
// @Success 201 {object} MemberResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /members [post]
func (h *MemberHandler) AddMember(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	dedication, err := decimalOrZero(req.Dedication)
	if err != nil {
		return NewValidationError(c, "Invalid dedication", []ValidationError{
			{Field: "dedication", Message: "Must be a valid number"},
		})
	}
	input := service.AddMemberInput{Name: req.Name, Email: req.Email, Dedication: dedication}

	member, err := h.memberService.AddMember(c.Request().Context(), groupID, input)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "A member with this email already exists")
		}
		return handleServiceError(c, err, validationField(err, memberFields, "name"), "add member")
	}

	log.Info().Int32("group_id", groupID).Int32("member_id", member.ID).Msg("Member added")
	return c.JSON(http.StatusCreated, toMemberResponse(member))
}

// GetMembers handles GET /api/v1/members
// @Summary List members
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MemberResponse
// @Router /members [get]
func (h *MemberHandler) GetMembers(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}

	members, err := h.memberService.ListMembers(c.Request().Context(), groupID)
	if err != nil {
		return handleServiceError(c, err, "", "list members")
	}

	response := make([]MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

// GetMember handles GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return paramProblem(c, err)
	}

	member, err := h.memberService.GetMember(c.Request().Context(), groupID, id)
	if err != nil {
		return handleServiceError(c, err, "id", "get member")
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// UpdateProfile handles PUT /api/v1/members/me
// @Summary Update own profile
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile"
// @Success 200 {object} MemberResponse
// @Failure 400 {object} ProblemDetails
// @Router /members/me [put]
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	memberID := middleware.GetMemberID(c)
	if groupID == 0 || memberID == 0 {
		return NewUnauthorizedError(c, "Member required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateProfileInput{Name: req.Name}
	if req.Dedication != nil {
		dedication, err := parseAmount(*req.Dedication)
		if err != nil {
			return NewValidationError(c, "Invalid dedication", []ValidationError{
				{Field: "dedication", Message: "Must be a valid number"},
			})
		}
		input.Dedication = &dedication
	}

	member, err := h.memberService.UpdateProfile(c.Request().Context(), groupID, memberID, input)
	if err != nil {
		return handleServiceError(c, err, validationField(err, memberFields, "name"), "update profile")
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// UploadAvatar handles POST /api/v1/members/me/avatar
// @Summary Upload own avatar
// @Tags members
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "JPEG or PNG, at most 5MB"
// @Success 201 {object} AvatarResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /members/me/avatar [post]
func (h *MemberHandler) UploadAvatar(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	memberID := middleware.GetMemberID(c)
	if groupID == 0 || memberID == 0 {
		return NewUnauthorizedError(c, "Member required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}
	if file.Size > service.MaxImageSize {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "File too large. Maximum size is 5MB"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	avatar, err := h.memberService.SetAvatar(c.Request().Context(), groupID, memberID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageStorageNotConfigured):
			return NewServiceUnavailableError(c, "Avatar uploads are disabled (storage not configured)")
		case errors.Is(err, service.ErrImageTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG"},
			})
		case errors.Is(err, service.ErrImageTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			return handleServiceError(c, err, "file", "upload avatar")
		}
	}

	log.Info().Int32("group_id", groupID).Int32("member_id", memberID).Msg("Avatar uploaded")
	return c.JSON(http.StatusCreated, toAvatarResponse(avatar))
}

// GetAvatar handles GET /api/v1/members/:id/avatar
func (h *MemberHandler) GetAvatar(c echo.Context) error {
	groupID := middleware.GetGroupID(c)
	if groupID == 0 {
		return NewUnauthorizedError(c, "Group required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return paramProblem(c, err)
	}

	avatar, err := h.memberService.GetAvatar(c.Request().Context(), groupID, id)
	if err != nil {
		if errors.Is(err, service.ErrImageStorageNotConfigured) {
			return NewServiceUnavailableError(c, "Avatar storage not configured")
		}
		return handleServiceError(c, err, "id", "get avatar")
	}
	return c.JSON(http.StatusOK, toAvatarResponse(avatar))
}

func toMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:         m.ID,
		GroupID:    m.GroupID,
		Name:       m.Name,
		Email:      m.Email,
		Dedication: formatAmount(m.Dedication),
		Linked:     m.IsLinked(),
		HasAvatar:  m.PictureObject != nil,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}

func toAvatarResponse(a *service.Avatar) AvatarResponse {
	return AvatarResponse{
		URL:       a.URL,
		ThumbURL:  a.ThumbURL,
		ExpiresAt: a.ExpiresAt.Format(time.RFC3339),
	}
}

// decimalOrZero keeps optional amount fields tolerant of empty form values
func decimalOrZero(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	return parseAmount(value)
}
