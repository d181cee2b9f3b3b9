package v1

import (
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

type AuthHandler struct {
	authUC *usecase.AuthUsecase
}

func NewAuthHandler(authUC *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	result, err := h.authUC.Register(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	result, err := h.authUC.Login(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	result, err := h.authUC.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.authUC.Logout(r.Context(), req.RefreshToken); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.authUC.RequestPasswordReset(r.Context(), req.Email); err != nil {
		utils.WriteError(w, err)
		return
	}
	// Same response whether or not the account exists.
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"message": "If that email is registered, a reset link is on its way.",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req usecase.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.authUC.ResetPassword(r.Context(), req); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p := domain.PrincipalFrom(r.Context())
	user, err := h.authUC.Profile(r.Context(), p.UserID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	user, err := h.authUC.UpdateProfile(r.Context(), domain.PrincipalFrom(r.Context()).UserID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req usecase.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.authUC.ChangePassword(r.Context(), domain.PrincipalFrom(r.Context()).UserID, req); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

// --- Addresses ---

func (h *AuthHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.authUC.ListAddresses(r.Context(), domain.PrincipalFrom(r.Context()).UserID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, addrs)
}

func (h *AuthHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddressRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	addr, err := h.authUC.AddAddress(r.Context(), domain.PrincipalFrom(r.Context()).UserID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, addr)
}

func (h *AuthHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddressRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	addr, err := h.authUC.UpdateAddress(r.Context(), domain.PrincipalFrom(r.Context()).UserID, r.PathValue("id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, addr)
}

func (h *AuthHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.authUC.DeleteAddress(r.Context(), domain.PrincipalFrom(r.Context()).UserID, r.PathValue("id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}
