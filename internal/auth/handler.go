package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/devika/wellnest/backend/internal/apperr"
	"github.com/devika/wellnest/backend/internal/httpx"
	"github.com/devika/wellnest/backend/internal/middleware"
	"github.com/devika/wellnest/backend/internal/models"
	"github.com/devika/wellnest/backend/internal/store"
)

// UserStore defines the interface for identity persistence.
type UserStore interface {
	CreateUser(ctx context.Context, fullName, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, email, hashedPw string) error
}

// TokenStore defines the interface for reset-token persistence.
type TokenStore interface {
	Create(ctx context.Context, email string) (string, error)
	Redeem(ctx context.Context, token string) (string, error)
}

// Mailer dispatches the reset mail as an async task; the returned channel
// reports completion or failure.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) <-chan error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users        UserStore
	tokens       TokenStore
	mailer       Mailer
	issuer       *TokenIssuer
	resetURLBase string
	validate     *validator.Validate
}

func NewHandler(users UserStore, tokens TokenStore, mailer Mailer, issuer *TokenIssuer, resetURLBase string) *Handler {
	return &Handler{
		users:        users,
		tokens:       tokens,
		mailer:       mailer,
		issuer:       issuer,
		resetURLBase: resetURLBase,
		validate:     validator.New(),
	}
}

// Signup registers a new identity.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("full_name, email, and password are required"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.FullName, req.Email, string(hashed))
	if errors.Is(err, store.ErrDuplicate) {
		httpx.HandleErr(w, r, apperr.Conflict("user already exists"))
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, user)
}

type signinResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signin checks credentials and issues a bearer token.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("email and password are required"))
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		httpx.HandleErr(w, r, apperr.ErrInvalidCredentials)
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpx.HandleErr(w, r, apperr.ErrInvalidCredentials)
		return
	}

	token, err := h.issuer.Issue(user.ID)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signinResponse{Token: token, User: user})
}

// ForgotPassword stores a reset token and mails the reset link. The token
// stays valid even when delivery fails, so the user can retry the mail.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("email is required"))
		return
	}

	if _, err := h.users.GetUserByEmail(r.Context(), req.Email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.HandleErr(w, r, apperr.NotFound("user not found"))
			return
		}
		httpx.HandleErr(w, r, err)
		return
	}

	token, err := h.tokens.Create(r.Context(), req.Email)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	link := h.resetURLBase + "/" + token
	if err := <-h.mailer.SendPasswordReset(r.Context(), req.Email, link); err != nil {
		httpx.HandleErr(w, r, apperr.ErrMailDelivery.Wrap(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "password reset link sent to your email",
	})
}

// ResetPassword redeems a token and replaces the password hash. Redemption
// consumes the token, so a replayed request fails.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("token and new password are required"))
		return
	}

	email, err := h.tokens.Redeem(r.Context(), req.Token)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if email == "" {
		httpx.HandleErr(w, r, apperr.ErrInvalidToken)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), email, string(hashed)); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "password reset successfully",
	})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.HandleErr(w, r, apperr.ErrInvalidCredentials)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.HandleErr(w, r, apperr.NotFound("user not found"))
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}
