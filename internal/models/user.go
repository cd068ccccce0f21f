package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles, ordered by capability.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleRank = map[Role]int{
	RoleUser:       0,
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the capability of min.
// Unknown roles never satisfy any requirement.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	return rr >= roleRank[min]
}

// User owns habits, badges and recommendations. Level is always derived
// from TotalPoints; the two are only ever written together.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Role        Role           `gorm:"size:20;default:'user'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	TotalPoints int            `gorm:"default:0;not null" json:"total_points"`
	Level       int            `gorm:"default:1;not null" json:"level"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Habits          []Habit          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Badges          []Badge          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recommendations []Recommendation `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// LevelForPoints derives the level for a point total: one level per 1000 points.
func LevelForPoints(totalPoints int) int {
	return totalPoints/1000 + 1
}

// BeforeCreate ensures UUID is set before creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
