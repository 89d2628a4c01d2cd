package handlers

import (
	"errors"
	"net/http"

	"tally/internal/audit"
	"tally/internal/auth"
	"tally/internal/config"
	"tally/internal/models"
	"tally/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles registration, login and identity requests
type AuthHandler struct {
	userRepo    repository.UserRepository
	authService *auth.Service
	cfg         *config.Config
	audit       *audit.Logger
	log         *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repository.UserRepository, authService *auth.Service, cfg *config.Config, auditLog *audit.Logger, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		authService: authService,
		cfg:         cfg,
		audit:       auditLog,
		log:         log,
	}
}

// Register creates a new user account and returns an access token.
// New accounts always start with the user role.
func (h *AuthHandler) Register(c *gin.Context) {
	if !h.cfg.Auth.RegistrationOpen {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "registration is closed"})
		return
	}

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	hashed, err := h.authService.HashPassword(req.Password)
	if err != nil {
		h.log.WithError(err).Error("failed to hash password")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to register"})
		return
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashed,
		Name:     req.Name,
		Role:     models.RoleUser,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			h.audit.RecordAnonymous(audit.ActionRegister, logrus.Fields{"email": req.Email, "reason": "email exists"})
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "email already registered"})
			return
		}
		h.log.WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to register"})
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		h.log.WithError(err).Error("failed to generate token")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to register"})
		return
	}

	h.audit.Record(user, audit.ActionRegister, nil)
	c.JSON(http.StatusCreated, models.LoginResponse{AccessToken: token, User: *user})
}

// Login verifies credentials and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same response as a bad password so the endpoint does
			// not reveal which emails are registered
			h.audit.RecordAnonymous(audit.ActionLoginFailed, logrus.Fields{"email": req.Email})
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid email or password"})
			return
		}
		h.log.WithError(err).Error("failed to fetch user")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to login"})
		return
	}

	if err := h.authService.ComparePasswords(user.Password, req.Password); err != nil {
		h.audit.RecordAnonymous(audit.ActionLoginFailed, logrus.Fields{"email": req.Email})
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid email or password"})
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		h.log.WithError(err).Error("failed to generate token")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to login"})
		return
	}

	h.audit.Record(user, audit.ActionLogin, nil)
	c.JSON(http.StatusOK, models.LoginResponse{AccessToken: token, User: *user})
}

// Me returns the identity resolved from the bearer token
func (h *AuthHandler) Me(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}
