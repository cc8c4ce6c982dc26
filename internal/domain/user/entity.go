package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin   Role = "admin"   // Manages users, salaries and every record
	RoleSupport Role = "support" // Sees and edits own commissions
)

// Level is the support level code that drives the level bonus.
type Level string

const (
	LevelOne   Level = "01"
	LevelTwo   Level = "02"
	LevelThree Level = "03"
	LevelFour  Level = "04"
	LevelFive  Level = "05"
)

var Levels = []Level{LevelOne, LevelTwo, LevelThree, LevelFour, LevelFive}

func (l Level) IsValid() bool {
	for _, v := range Levels {
		if v == l {
			return true
		}
	}
	return false
}

type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	GrossSalary     decimal.Decimal
	Level           *Level
	BonusPercentage *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
