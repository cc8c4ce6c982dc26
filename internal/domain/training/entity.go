package training

import (
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/document"
)

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	return s == StatusPlanned || s == StatusDone || s == StatusCancelled
}

// Session is a scheduled training with a client. It has no effect on salary.
type Session struct {
	ID           string
	Title        string
	DocumentType document.Type
	Document     string
	UserID       *string
	StartsAt     time.Time
	EndsAt       time.Time
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	UserName *string
}
