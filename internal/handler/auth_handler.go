package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/taskboard/internal/dto"
	"github.com/hitoshi/taskboard/internal/middleware"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	// Refresh はリフレッシュトークンから新しいアクセストークンを発行する。
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, req dto.RefreshRequest) error
	// RequestPasswordReset は登録メールアドレスにリセットリンクを送信する。
	RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error
	CompletePasswordReset(ctx context.Context, req dto.PasswordResetComplete) error
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup はユーザー登録を処理する。
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, resp)
}

// Login はユーザー名とパスワードによるログインを処理する。
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Refresh はアクセストークンの再発行を処理する。
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Logout はリフレッシュトークンを失効させる。
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Logout(r.Context(), req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset はパスワードリセットメールの送信を処理する。
// POST /api/v1/auth/password/reset/request
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteMessage(w, http.StatusOK, "Password reset email sent")
}

// CompletePasswordReset はリセットトークンによるパスワード再設定を処理する。
// POST /api/v1/auth/password/reset/complete
func (h *AuthHandler) CompletePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetComplete
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.CompletePasswordReset(r.Context(), req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteMessage(w, http.StatusOK, "Password has been reset")
}
