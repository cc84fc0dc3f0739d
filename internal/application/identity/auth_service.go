package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentledger/backend/internal/domain/identity"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/auth"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// AuthService handles registration, authentication and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AuthService", "Register")
	defer span.End()

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName, input.Role)
	if err != nil {
		return nil, err
	}

	if user.IsTenant() {
		if err := user.CompleteTenantProfile(input.Phone, input.IDNumber, input.EmergencyContact); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to save new user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	info := newUserInfo(user)
	return &info, nil
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AuthService", "Login")
	defer span.End()

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if user == nil {
		s.logger.Warn("User not found during login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.IsActive() {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds, last-login timestamp is best effort
		s.logger.Error("Failed to update user after login", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  newUserInfo(user),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// Email and role are reloaded from the user record so role changes take
// effect on refresh rather than only at the next login.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AuthService", "RefreshToken")
	defer span.End()

	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	} else if blacklisted {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if user == nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is no longer active")
	}

	if invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, userID.String(), claims.GetIssuedAtTime()); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	} else if invalidated {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Email, user.Role.String())
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	// The old refresh token is single use
	if ttl := claims.GetRemainingTTL(); ttl > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
			s.logger.Error("Failed to blacklist rotated refresh token", zap.Error(err))
		}
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout blacklists the current access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "AuthService", "Logout")
	defer span.End()

	claims, err := s.jwtService.ValidateAccessToken(input.AccessToken)
	if err != nil {
		// Already expired or invalid, nothing to revoke
		s.logger.Debug("Logout with invalid access token", zap.Error(err))
		return nil
	}

	if ttl := claims.GetRemainingTTL(); ttl > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
			telemetry.RecordError(span, err)
			s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// ForceLogout invalidates every outstanding token for a user
func (s *AuthService) ForceLogout(ctx context.Context, userID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "AuthService", "ForceLogout")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if user == nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to invalidate user tokens", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to invalidate user sessions")
	}

	s.logger.Info("All sessions invalidated", zap.String("user_id", userID.String()))
	return nil
}

// ChangePassword changes a user's password and invalidates existing sessions
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "AuthService", "ChangePassword")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if user == nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate sessions after password change", zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate token")
	}
}
