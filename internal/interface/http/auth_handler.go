package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/timewise-app/timewise-api/internal/application"
	"github.com/timewise-app/timewise-api/internal/domain/entity"
	"github.com/timewise-app/timewise-api/pkg/response"
)

type AuthHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// userPayload is the wire representation of a user. The password hash is
// deliberately absent.
type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPayload(u *entity.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		response.Error(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, application.ErrAccountDisabled):
			response.Error(c, http.StatusUnauthorized, "Account is disabled")
		default:
			h.logInternal(c, "login failed", err, logrus.Fields{"username": req.Username})
			response.Error(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	response.Auth(c, http.StatusOK, toPayload(u), token)
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		response.Error(c, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateUser) {
			// One message for both collision kinds.
			response.Error(c, http.StatusBadRequest, "Username or email already exists")
			return
		}
		h.logInternal(c, "register failed", err, logrus.Fields{"username": req.Username})
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Auth(c, http.StatusCreated, toPayload(u), token)
}

// Profile handles GET /api/auth/profile (token required)
func (h *AuthHandler) Profile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.Profile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		h.logInternal(c, "profile fetch failed", err, logrus.Fields{"user_id": uid})
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.User(c, toPayload(u))
}

func (h *AuthHandler) logInternal(c *gin.Context, msg string, err error, fields logrus.Fields) {
	if h.Logger == nil {
		return
	}
	fields["request_id"] = c.GetString("request_id")
	h.Logger.WithError(err).WithFields(fields).Error(msg)
}
