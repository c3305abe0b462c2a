package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/config"
	"crm-leads/internal/core/domain"
	"crm-leads/internal/pkg/jwt"
	"crm-leads/internal/pkg/metrics"
	"crm-leads/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 30
)

// AuthService issues and verifies credentials
type AuthService struct {
	accountRepo repositories.AccountRepository
	denylist    repositories.TokenDenylist
	jwtCfg      config.JWTConfig
	logger      *zap.Logger
	hashCost    int

	dummyOnce sync.Once
	dummyHash string
}

// AuthOption customises an AuthService
type AuthOption func(*AuthService)

// WithHashCost overrides the bcrypt cost used for new password hashes
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

// NewAuthService creates a new auth service. denylist may be nil, in which
// case logout has no server-side effect.
func NewAuthService(
	accountRepo repositories.AccountRepository,
	denylist repositories.TokenDenylist,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		accountRepo: accountRepo,
		denylist:    denylist,
		jwtCfg:      cfg.JWT,
		logger:      logger,
		hashCost:    password.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword"`
	Role            domain.Role `json:"role"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string                  `json:"token"`
	ExpiresAt time.Time               `json:"expiresAt"`
	User      *models.AccountResponse `json:"user"`
}

// Identity is what a verified credential resolves to
type Identity struct {
	AccountID string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// Register creates a new account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.AccountResponse, error) {
	account, err := s.register(ctx, input)
	metrics.RecordAuthEvent("register", err)
	if err != nil {
		return nil, err
	}
	return account.ToResponse(), nil
}

func (s *AuthService) register(ctx context.Context, input *RegisterInput) (*models.Account, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	role := domain.Role(strings.TrimSpace(string(input.Role)))
	if role == "" {
		role = domain.RoleEmployee
	}

	if err := validateRegistration(username, email, input.Password, input.ConfirmPassword, role); err != nil {
		return nil, err
	}

	exists, err := s.accountRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, domain.NewStorageError("check username", err)
	}
	if exists {
		return nil, domain.ErrAccountExists
	}
	exists, err = s.accountRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewStorageError("check email", err)
	}
	if exists {
		return nil, domain.ErrAccountExists
	}

	hash, err := password.HashWithCost(input.Password, s.hashCost)
	if err != nil {
		return nil, domain.NewStorageError("hash password", err)
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAccountExists
		}
		return nil, domain.NewStorageError("create account", err)
	}

	s.logger.Info("account registered",
		zap.String("account_id", account.ID),
		zap.String("username", account.Username),
		zap.String("role", string(account.Role)),
	)
	return account, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// fail identically.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	resp, err := s.login(ctx, input)
	metrics.RecordAuthEvent("login", err)
	return resp, err
}

func (s *AuthService) login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn the same bcrypt time as a real comparison
			password.Verify(input.Password, s.fakeHash())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.NewStorageError("find account", err)
	}

	if !password.Verify(input.Password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := jwt.GenerateAccessToken(
		account.ID,
		string(account.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.Issuer,
		s.jwtCfg.TTL(),
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account logged in", zap.String("account_id", account.ID))

	return &AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAtTime(),
		User:      account.ToResponse(),
	}, nil
}

// Verify checks signature, expiry and revocation of a credential
func (s *AuthService) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := jwt.ValidateAccessToken(token, s.jwtCfg.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, domain.NewStorageError("check token revocation", err)
		}
		if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}

	return &Identity{
		AccountID: claims.AccountID,
		Role:      domain.Role(claims.Role),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// CurrentUser verifies token and loads the account it belongs to
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.AccountResponse, error) {
	identity, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, identity.AccountID)
}

// GetAccount gets an account by ID
func (s *AuthService) GetAccount(ctx context.Context, accountID string) (*models.AccountResponse, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, domain.NewStorageError("find account", err)
	}
	return account.ToResponse(), nil
}

// ChangePassword replaces the password of accountID after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, accountID string, input *ChangePasswordInput) error {
	err := s.changePassword(ctx, accountID, input)
	metrics.RecordAuthEvent("change_password", err)
	return err
}

func (s *AuthService) changePassword(ctx context.Context, accountID string, input *ChangePasswordInput) error {
	var missing []string
	if input.CurrentPassword == "" {
		missing = append(missing, "currentPassword")
	}
	if input.NewPassword == "" {
		missing = append(missing, "newPassword")
	}
	if len(missing) > 0 {
		return domain.MissingFields(missing...)
	}
	if !password.ValidatePassword(input.NewPassword) {
		return domain.NewValidationError("password must be between 6 and 72 characters", "newPassword")
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.NewPassword {
		return domain.NewValidationError("passwords do not match", "confirmPassword")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccountNotFound
		}
		return domain.NewStorageError("find account", err)
	}
	if !password.Verify(input.CurrentPassword, account.PasswordHash) {
		return domain.ErrWrongPassword
	}

	hash, err := password.HashWithCost(input.NewPassword, s.hashCost)
	if err != nil {
		return domain.NewStorageError("hash password", err)
	}
	if err := s.accountRepo.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccountNotFound
		}
		return domain.NewStorageError("update password", err)
	}

	s.logger.Info("password changed", zap.String("account_id", accountID))
	return nil
}

// Logout revokes the credential until it would have expired anyway.
// Without a denylist it is a no-op and the caller simply discards the token.
func (s *AuthService) Logout(ctx context.Context, identity *Identity) error {
	err := s.logout(ctx, identity)
	metrics.RecordAuthEvent("logout", err)
	return err
}

func (s *AuthService) logout(ctx context.Context, identity *Identity) error {
	if s.denylist == nil || identity == nil || identity.TokenID == "" {
		return nil
	}
	ttl := time.Until(identity.ExpiresAt)
	if err := s.denylist.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return domain.NewStorageError("revoke token", err)
	}
	s.logger.Info("token revoked",
		zap.String("account_id", identity.AccountID),
		zap.String("token_id", identity.TokenID),
	)
	return nil
}

func (s *AuthService) fakeHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = password.HashWithCost("not-a-real-password", s.hashCost)
	})
	return s.dummyHash
}

func validateRegistration(username, email, pass, confirm string, role domain.Role) error {
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if pass == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return domain.MissingFields(missing...)
	}

	if n := len([]rune(username)); n < usernameMinLength || n > usernameMaxLength {
		return domain.NewValidationError("username must be between 3 and 30 characters", "username")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewValidationError("email is not valid", "email")
	}
	if !password.ValidatePassword(pass) {
		return domain.NewValidationError("password must be between 6 and 72 characters", "password")
	}
	if confirm != "" && confirm != pass {
		return domain.NewValidationError("passwords do not match", "confirmPassword")
	}
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
