package controllers

import (
	"errors"
	"net/http"

	"github.com/nikhilrana/saman/app/repositories"
	"github.com/nikhilrana/saman/app/services"
	"github.com/nikhilrana/saman/pkg/bind"
	"github.com/nikhilrana/saman/pkg/logger"
	"github.com/nikhilrana/saman/pkg/response"
)

// AuthController exposes registration and the token-pair endpoints.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new account, active and non-staff.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs.Any() {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Register(input.Username, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			response.Conflict(w, "A user with that username already exists")
			return
		}
		logger.WithCtx(r.Context()).Error("register failed", "error", err.Error())
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithCtx(r.Context()).Info("user registered", "user_id", user.ID, "username", user.Username)
	response.CreatedMessage(w, "New user created")
}

// LoginInput is the credential payload for the token-pair endpoint.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks the credentials and returns an access/refresh token pair.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	errs, err := bind.JSON(r, &input)
	if err != nil || errs.Any() {
		response.Unauthorized(w, services.ErrInvalidCredentials.Error())
		return
	}

	pair, err := c.service.Login(input.Username, input.Password)
	if err != nil {
		response.Unauthorized(w, services.ErrInvalidCredentials.Error())
		return
	}

	response.JSON(w, http.StatusOK, pair)
}

// RefreshInput carries the refresh token.
type RefreshInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new pair.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var input RefreshInput
	errs, err := bind.JSON(r, &input)
	if err != nil || errs.Any() {
		response.Unauthorized(w, services.ErrInvalidCredentials.Error())
		return
	}

	pair, err := c.service.Refresh(input.Refresh)
	if err != nil {
		response.Unauthorized(w, services.ErrInvalidCredentials.Error())
		return
	}

	response.JSON(w, http.StatusOK, pair)
}
