package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Role == domain.RoleWorker && in.WorkerID == "" {
		return nil, domain.NewValidationError("worker_id", "is required for worker accounts")
	}
	if in.Role == domain.RoleSite && in.SiteID == "" {
		return nil, domain.NewValidationError("site_id", "is required for site accounts")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	perms := in.Permissions
	if perms == nil {
		perms = defaultPermissions(in.Role)
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		WorkerID:     in.WorkerID,
		SiteID:       in.SiteID,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":         user.ID,
		"username":    user.Username,
		"role":        user.Role,
		"worker_id":   user.WorkerID,
		"site_id":     user.SiteID,
		"permissions": user.Permissions,
		"exp":         time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// defaultPermissions is used when the account is created without an explicit
// permission list. Workers only see their own mirror.
func defaultPermissions(role string) []string {
	switch role {
	case domain.RoleManager:
		return append([]string(nil), domain.AllPermissions...)
	case domain.RoleSite:
		return []string{domain.PermDashboard, domain.PermClock, domain.PermReports, domain.PermBiometrics}
	default:
		return []string{domain.PermMirror}
	}
}
