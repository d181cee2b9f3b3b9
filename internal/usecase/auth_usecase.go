package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/mailer"
	"lushlocks-backend/pkg/utils"
)

// AuthUsecase handles registration, login, token refresh, and password reset.
type AuthUsecase struct {
	userRepo  domain.UserRepository
	resetRepo domain.PasswordResetRepository
	mail      mailer.Mailer

	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	resetTokenExpiry   time.Duration
	frontendURL        string
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	resetRepo domain.PasswordResetRepository,
	mail mailer.Mailer,
	accessTokenExpiry, refreshTokenExpiry time.Duration,
	frontendURL string,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:           userRepo,
		resetRepo:          resetRepo,
		mail:               mail,
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
		resetTokenExpiry:   time.Hour,
		frontendURL:        frontendURL,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=20"`
}

type AuthResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Internal("hash password", err)
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         "customer",
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.issueTokens(ctx, user)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same message for unknown email and wrong password.
		return nil, domain.Authf("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.Authf("invalid email or password")
	}
	return uc.issueTokens(ctx, user)
}

func (uc *AuthUsecase) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	access, err := utils.GenerateJWT(user.ID, user.Email, user.Role, uc.accessTokenExpiry)
	if err != nil {
		return nil, domain.Internal("sign access token", err)
	}

	refresh := &domain.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(uc.refreshTokenExpiry),
	}
	if err := uc.userRepo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh.Token,
	}, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued.
func (uc *AuthUsecase) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	stored, err := uc.userRepo.GetRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, domain.Authf("refresh token expired")
	}

	user, err := uc.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.RevokeRefreshToken(ctx, token); err != nil {
		return nil, err
	}
	return uc.issueTokens(ctx, user)
}

func (uc *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return uc.userRepo.RevokeRefreshToken(ctx, refreshToken)
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RequestPasswordReset emails a single-use reset link. The response is the
// same whether or not the email exists, so the endpoint cannot be used to
// enumerate accounts.
func (uc *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.ErrKindNotFound {
			return nil
		}
		return err
	}

	token := utils.RandomToken(32)
	reset := &domain.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: time.Now().Add(uc.resetTokenExpiry),
	}
	if err := uc.resetRepo.Save(ctx, reset); err != nil {
		return err
	}

	if uc.mail != nil {
		err := uc.mail.Send(ctx, &mailer.Email{
			To:      user.Email,
			Subject: "Reset your password",
			Text: fmt.Sprintf(
				"Use the link below to reset your password. It expires in one hour.\n\n%s/reset-password?token=%s",
				uc.frontendURL, token),
		})
		if err != nil {
			logger.Warn().Err(err).Msg("password reset email failed")
		}
	}
	return nil
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (uc *AuthUsecase) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	reset, err := uc.resetRepo.GetByHash(ctx, hashResetToken(req.Token))
	if err != nil {
		return err
	}
	if !reset.Usable(time.Now()) {
		return domain.Authf("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Internal("hash password", err)
	}
	if err := uc.resetRepo.MarkUsed(ctx, reset.ID); err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, reset.UserID, string(hash))
}

func (uc *AuthUsecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=20"`
}

func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return uc.userRepo.UpdateProfile(ctx, userID, req.FirstName, req.LastName, req.Phone)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

func (uc *AuthUsecase) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return domain.Authf("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Internal("hash password", err)
	}
	return uc.userRepo.UpdatePassword(ctx, userID, string(hash))
}

type AddressRequest struct {
	Label      string `json:"label" validate:"max=50"`
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Street     string `json:"street" validate:"required,max=200"`
	Suburb     string `json:"suburb" validate:"max=100"`
	City       string `json:"city" validate:"required,max=100"`
	Province   string `json:"province" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=10"`
	IsDefault  bool   `json:"isDefault"`
}

func (uc *AuthUsecase) AddAddress(ctx context.Context, userID string, req AddressRequest) (*domain.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	addr := addressFromRequest(userID, req)
	if err := uc.userRepo.AddAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (uc *AuthUsecase) UpdateAddress(ctx context.Context, userID, addressID string, req AddressRequest) (*domain.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	addr := addressFromRequest(userID, req)
	addr.ID = addressID
	if err := uc.userRepo.UpdateAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (uc *AuthUsecase) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	return uc.userRepo.GetAddresses(ctx, userID)
}

func (uc *AuthUsecase) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return uc.userRepo.DeleteAddress(ctx, addressID, userID)
}

func (uc *AuthUsecase) ListUsers(ctx context.Context, page, limit int) ([]*domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return uc.userRepo.GetAll(ctx, limit, (page-1)*limit)
}

func addressFromRequest(userID string, req AddressRequest) *domain.Address {
	return &domain.Address{
		UserID:     userID,
		Label:      req.Label,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Street:     req.Street,
		Suburb:     req.Suburb,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
}
