package models

// User roles.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents a platform account (admin, teacher or student).
type User struct {
	Base
	Name     string `json:"name"     gorm:"not null"`
	Email    string `json:"email"    gorm:"uniqueIndex;not null"`
	Role     string `json:"role"     gorm:"index;not null;default:student"`
	Password string `json:"-"        gorm:"not null"`
}

func (User) TableName() string { return "users" }
