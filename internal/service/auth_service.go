package service

import (
	"context"
	"errors"
	"strings"

	"studio8/config"
	"studio8/internal/auth"
	"studio8/internal/booking"
	"studio8/internal/domain"
	"studio8/internal/models"
	"studio8/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrAccountBlocked = errors.New("account is disabled")
	ErrNotStaff       = errors.New("no staff account for this Google identity")
	ErrEmailExists    = errors.New("email already registered")
)

// AuthService signs in back-office staff. There is no self-registration: accounts are
// created by an admin, and Google sign-in only links to an existing account.
type AuthService struct {
	cfg   *config.Config
	staff *repository.StaffRepository
}

func NewAuthService(cfg *config.Config, staff *repository.StaffRepository) *AuthService {
	return &AuthService{cfg: cfg, staff: staff}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.StaffUser, string, error) {
	u, err := s.staff.GetByEmail(ctx, booking.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, "", ErrInvalidCreds
		}
		return nil, "", err
	}
	if u.PasswordHash == "" {
		return nil, "", ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCreds
	}
	return s.issue(u)
}

// LoginWithGoogle signs in the staff user owning googleID, or links googleID to the staff
// account with the same email on first use.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleID, email string) (*models.StaffUser, string, error) {
	u, err := s.staff.GetByGoogleID(ctx, googleID)
	if err == nil {
		return s.issue(u)
	}
	if !errors.Is(err, booking.ErrNotFound) {
		return nil, "", err
	}
	u, err = s.staff.GetByEmail(ctx, booking.NormalizeEmail(email))
	if errors.Is(err, booking.ErrNotFound) {
		return nil, "", ErrNotStaff
	}
	if err != nil {
		return nil, "", err
	}
	gid := googleID
	u.GoogleID = &gid
	if err := s.staff.Update(ctx, u); err != nil {
		return nil, "", err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.StaffUser) (*models.StaffUser, string, error) {
	if !u.IsActive {
		return nil, "", ErrAccountBlocked
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// CreateStaff adds a back-office account. Only ADMIN and STAFF roles exist.
func (s *AuthService) CreateStaff(ctx context.Context, name, email, password, role string) (*models.StaffUser, error) {
	email = booking.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, booking.Invalid("email", "must be a valid email address")
	}
	if len(password) < 8 {
		return nil, booking.Invalid("password", "must be at least 8 characters")
	}
	if role != domain.RoleAdmin && role != domain.RoleStaff {
		return nil, booking.Invalid("role", "must be ADMIN or STAFF")
	}
	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, booking.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.StaffUser{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.staff.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	u, err := s.staff.GetByID(ctx, userID)
	if err != nil {
		return ErrInvalidCreds
	}
	if u.PasswordHash == "" {
		return errors.New("account uses Google sign-in; set a password first")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	if len(newPassword) < 8 {
		return booking.Invalid("new_password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.staff.Update(ctx, u)
}
