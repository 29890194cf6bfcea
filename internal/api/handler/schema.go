package handler

import (
	"time"

	"github.com/campusboard/board-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	Role      string `json:"role"       validate:"required,oneof=participant organizer"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// --- Users ---

type updateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Password  *string `json:"password"   validate:"omitempty,min=8,max=72"`
	Role      *string `json:"role"       validate:"omitempty,oneof=participant organizer admin"`
}

// --- Categories ---

type createCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// --- Posts ---

type createPostRequest struct {
	Title      string `json:"title"       validate:"required,max=200"`
	Body       string `json:"body"        validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

type updatePostRequest struct {
	Title      *string `json:"title"       validate:"omitempty,max=200"`
	Body       *string `json:"body"`
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
}

type moderateRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
