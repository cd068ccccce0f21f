package services

import "errors"

var (
	// Auth
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")

	// Habits
	ErrHabitNotFound     = errors.New("habit not found")
	ErrInvalidDifficulty = errors.New("difficulty level must be between 1 and 5")
	ErrInvalidMoodRating = errors.New("mood rating must be between 1 and 5")
	ErrAlreadyCheckedIn  = errors.New("already checked in today for this habit")

	// Recommendations
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrInvalidRecommendation  = errors.New("invalid recommendation type")

	// Admin
	ErrInvalidSecret  = errors.New("invalid admin creation secret")
	ErrAdminExists    = errors.New("an admin account already exists")
	ErrInvalidRole    = errors.New("invalid role")
	ErrInviteInvalid  = errors.New("invalid or expired invitation")
	ErrInviteExists   = errors.New("a valid invitation already exists for this email")
	ErrInviteNotFound = errors.New("invitation not found")
)
