package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Afzalsd/Ecom-SAAS/internal/auth"
	"github.com/Afzalsd/Ecom-SAAS/internal/config"
	"github.com/Afzalsd/Ecom-SAAS/internal/domain/user"
	"github.com/Afzalsd/Ecom-SAAS/internal/http/middlewares"
	"github.com/Afzalsd/Ecom-SAAS/internal/repo/postgres"
	"github.com/Afzalsd/Ecom-SAAS/internal/security"
	"github.com/gin-gonic/gin"
)

// UserStore is the credential store contract the auth flows need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
}

type AuthHandler struct {
	users UserStore
	jwt   *auth.Manager
	log   *slog.Logger
}

func NewAuthHandler(users UserStore, jwtManager *auth.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
		log:   log,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	User  user.Public `json:"user"`
	Token string      `json:"token"`
}

const invalidCredentialsMessage = "Invalid credentials"

// Register creates a user and issues a session token. Uniqueness is
// enforced twice: a friendly pre-check here, and the store's unique index
// which wins under concurrent identical submissions.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if _, err := h.users.GetByEmail(cctx, req.Email); err == nil {
		RespondError(ctx, http.StatusBadRequest, "email_taken", "User already exists", nil)
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.log.Error("hash password", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.users.Create(cctx, req.Email, hash, req.Name, user.RoleCustomer)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondError(ctx, http.StatusBadRequest, "email_taken", "User already exists", nil)
			return
		}

		h.log.Error("create user", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.jwt.Issue(u.ID, u.Email, u.Role)

	if err != nil {
		h.log.Error("issue token", "err", err)
		RespondInternal(ctx, "Could not create session")
		return
	}

	ctx.JSON(http.StatusCreated, sessionResponse{
		User:  u.Public(),
		Token: token,
	})
}

// Login authenticates by email and password. Unknown email and wrong
// password produce byte-identical responses so accounts cannot be
// enumerated, and both paths run a bcrypt comparison.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		security.BurnCompare(req.Password)
		RespondError(ctx, http.StatusBadRequest, "invalid_credentials", invalidCredentialsMessage, nil)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondError(ctx, http.StatusBadRequest, "invalid_credentials", invalidCredentialsMessage, nil)
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Email, foundUser.Role)

	if err != nil {
		h.log.Error("issue token", "err", err)
		RespondInternal(ctx, "Could not create session")
		return
	}

	ctx.JSON(http.StatusOK, sessionResponse{
		User:  foundUser.Public(),
		Token: token,
	})
}

// Profile returns the authenticated user's record, loaded fresh from the
// store rather than echoed from token claims.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok || id == "" {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondUnauthorized(ctx, "unauthorized", "Unknown user")
			return
		}

		h.log.Error("load profile", "err", err)
		RespondInternal(ctx, "Could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
