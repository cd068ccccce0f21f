package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/config"
	"github.com/habitforge/habitforge-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService handles admin bootstrap, invitations and admin-only account
// and analytics operations.
type AdminService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{db: db, cfg: cfg}
}

func (s *AdminService) verifySecret(secret string) bool {
	if s.cfg.AdminCreationSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.AdminCreationSecret)) == 1
}

// CreateFirstAdmin bootstraps a super admin. It only succeeds while no
// admin or super admin exists and the creation secret matches.
func (s *AdminService) CreateFirstAdmin(email, password, secret string) error {
	if !s.verifySecret(secret) {
		return ErrInvalidSecret
	}
	if len(email) == 0 || len(password) < 8 {
		return errors.New("email required and password must be at least 8 characters")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.User{}).
			Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleSuperAdmin}).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if count > 0 {
			return ErrAdminExists
		}

		var existing models.User
		if err := tx.Where("email = ?", email).First(&existing).Error; err == nil {
			return ErrEmailTaken
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		admin := models.User{
			ID:       uuid.New(),
			Email:    email,
			Password: string(hash),
			Role:     models.RoleSuperAdmin,
			IsActive: true,
			Level:    1,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create super admin: %w", err)
		}

		slog.Warn("super admin account created", "email", email)
		return nil
	})
}

// InviteResult carries the one-time raw invite token back to the caller.
type InviteResult struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// InviteAdmin issues a 48-hour invitation. Only the token's hash is stored.
func (s *AdminService) InviteAdmin(inviterID uuid.UUID, email, secret string) (*InviteResult, error) {
	if !s.verifySecret(secret) {
		return nil, ErrInvalidSecret
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	var pending models.AdminInvite
	err := s.db.Where("email = ? AND is_used = false AND expires_at > ?", email, time.Now()).
		First(&pending).Error
	if err == nil {
		return nil, ErrInviteExists
	}

	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return nil, fmt.Errorf("failed to generate invite token: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	invite := models.AdminInvite{
		ID:        uuid.New(),
		Email:     email,
		TokenHash: hashToken(rawToken),
		InvitedBy: inviterID,
		ExpiresAt: time.Now().Add(48 * time.Hour),
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return &InviteResult{Email: email, Token: rawToken, ExpiresAt: invite.ExpiresAt}, nil
}

// AcceptInvite redeems an invitation and creates the admin account.
func (s *AdminService) AcceptInvite(rawToken, password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}

	var email string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var invite models.AdminInvite
		err := tx.Where("token_hash = ? AND is_used = false AND expires_at > ?", hashToken(rawToken), time.Now()).
			First(&invite).Error
		if err != nil {
			return ErrInviteInvalid
		}

		var existing models.User
		if err := tx.Where("email = ?", invite.Email).First(&existing).Error; err == nil {
			return ErrEmailTaken
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		admin := models.User{
			ID:       uuid.New(),
			Email:    invite.Email,
			Password: string(hash),
			Role:     models.RoleAdmin,
			IsActive: true,
			Level:    1,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		now := time.Now().UTC()
		invite.IsUsed = true
		invite.UsedAt = &now
		if err := tx.Save(&invite).Error; err != nil {
			return fmt.Errorf("failed to mark invite used: %w", err)
		}

		email = invite.Email
		return nil
	})
	if err != nil {
		return "", err
	}
	return email, nil
}

func (s *AdminService) ListInvites() ([]models.AdminInvite, error) {
	var invites []models.AdminInvite
	if err := s.db.Order("created_at DESC").Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("failed to load invites: %w", err)
	}
	return invites, nil
}

func (s *AdminService) RevokeInvite(inviteID uuid.UUID) error {
	result := s.db.Delete(&models.AdminInvite{}, "id = ?", inviteID)
	if result.Error != nil {
		return fmt.Errorf("failed to revoke invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotFound
	}
	return nil
}

func (s *AdminService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// CreateUser lets an admin create an account with an explicit role.
func (s *AdminService) CreateUser(email, password string, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if len(email) == 0 || len(password) < 8 {
		return errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
		Level:    1,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// PlatformAnalytics is the platform-wide admin view.
type PlatformAnalytics struct {
	TotalUsers           int64   `json:"total_users"`
	TotalHabits          int64   `json:"total_habits"`
	TotalCheckIns        int64   `json:"total_checkins"`
	ActiveUsersLast7Days int64   `json:"active_users_last_7_days"`
	AverageHabitsPerUser float64 `json:"average_habits_per_user"`
}

func (s *AdminService) Analytics() (*PlatformAnalytics, error) {
	var out PlatformAnalytics

	if err := s.db.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.Habit{}).Count(&out.TotalHabits).Error; err != nil {
		return nil, fmt.Errorf("failed to count habits: %w", err)
	}
	if err := s.db.Model(&models.CheckIn{}).Count(&out.TotalCheckIns).Error; err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	err := s.db.Model(&models.CheckIn{}).
		Distinct("habits.user_id").
		Joins("JOIN habits ON habits.id = check_ins.habit_id").
		Where("check_ins.check_in_date >= ?", weekAgo).
		Count(&out.ActiveUsersLast7Days).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	if out.TotalUsers > 0 {
		out.AverageHabitsPerUser = float64(out.TotalHabits) / float64(out.TotalUsers)
	}
	return &out, nil
}
