package training

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/document"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
)

type SessionResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	DocumentType string  `json:"document_type"`
	Document     string  `json:"document"`
	UserID       *string `json:"user_id"`
	UserName     *string `json:"user_name,omitempty"`
	StartsAt     string  `json:"starts_at"`
	EndsAt       string  `json:"ends_at"`
	Status       string  `json:"status"`
}

func ToResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		Title:        s.Title,
		DocumentType: string(s.DocumentType),
		Document:     s.Document,
		UserID:       s.UserID,
		UserName:     s.UserName,
		StartsAt:     s.StartsAt.Format(time.RFC3339),
		EndsAt:       s.EndsAt.Format(time.RFC3339),
		Status:       string(s.Status),
	}
}

type SessionFilter struct {
	UserID string
	Status string
}

func (f *SessionFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.UserID != "" && !validator.IsValidUUID(f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}
	if f.Status != "" && !Status(f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: planned, done, cancelled",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateSessionRequest struct {
	Title        string  `json:"title"`
	DocumentType string  `json:"document_type"`
	Document     string  `json:"document"`
	UserID       *string `json:"user_id,omitempty"`
	StartsAt     string  `json:"starts_at"`
	EndsAt       string  `json:"ends_at"`
	Status       string  `json:"status,omitempty"`
}

func (r *CreateSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Document) {
		errs = append(errs, validator.ValidationError{
			Field:   "document",
			Message: "document is required",
		})
	} else if t, _, ok := document.Resolve(r.DocumentType, r.Document); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "document",
			Message: document.Message(t),
		})
	}

	if r.UserID != nil && *r.UserID != "" && !validator.IsValidUUID(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if r.Status != "" && !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: planned, done, cancelled",
		})
	}

	start, startOK := validator.IsValidDateTime(r.StartsAt)
	if validator.IsEmpty(r.StartsAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "starts_at",
			Message: "starts_at is required",
		})
	} else if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "starts_at",
			Message: "starts_at must be an RFC3339 timestamp",
		})
	}

	end, endOK := validator.IsValidDateTime(r.EndsAt)
	if validator.IsEmpty(r.EndsAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "ends_at",
			Message: "ends_at is required",
		})
	} else if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "ends_at",
			Message: "ends_at must be an RFC3339 timestamp",
		})
	}

	errs = append(errs, validateTitle(r.Title)...)
	if startOK && endOK {
		errs = append(errs, validateSchedule(start, end)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateSessionRequest) ToSession() Session {
	docType, digits, _ := document.Resolve(r.DocumentType, r.Document)
	start, _ := validator.IsValidDateTime(r.StartsAt)
	end, _ := validator.IsValidDateTime(r.EndsAt)

	status := StatusPlanned
	if r.Status != "" {
		status = Status(r.Status)
	}

	var userID *string
	if r.UserID != nil && *r.UserID != "" {
		userID = r.UserID
	}

	return Session{
		Title:        strings.TrimSpace(r.Title),
		DocumentType: docType,
		Document:     digits,
		UserID:       userID,
		StartsAt:     start,
		EndsAt:       end,
		Status:       status,
	}
}

type UpdateSessionRequest struct {
	ID           string  `json:"-"`
	Title        *string `json:"title,omitempty"`
	DocumentType *string `json:"document_type,omitempty"`
	Document     *string `json:"document,omitempty"`
	UserID       *string `json:"user_id,omitempty"`
	StartsAt     *string `json:"starts_at,omitempty"`
	EndsAt       *string `json:"ends_at,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (r *UpdateSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.StartsAt != nil {
		if _, ok := validator.IsValidDateTime(*r.StartsAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "starts_at",
				Message: "starts_at must be an RFC3339 timestamp",
			})
		}
	}
	if r.EndsAt != nil {
		if _, ok := validator.IsValidDateTime(*r.EndsAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "ends_at",
				Message: "ends_at must be an RFC3339 timestamp",
			})
		}
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: planned, done, cancelled",
		})
	}
	if r.UserID != nil && *r.UserID != "" && !validator.IsValidUUID(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Merge applies the update onto s and re-checks title, document and schedule.
// An empty user_id detaches the session from its user.
func (r *UpdateSessionRequest) Merge(s Session) (Session, error) {
	var errs validator.ValidationErrors

	if r.Title != nil {
		s.Title = strings.TrimSpace(*r.Title)
		errs = append(errs, validateTitle(s.Title)...)
	}
	if r.DocumentType != nil || r.Document != nil {
		rawType := string(s.DocumentType)
		if r.DocumentType != nil {
			rawType = *r.DocumentType
		}
		raw := s.Document
		if r.Document != nil {
			raw = *r.Document
		}
		t, digits, ok := document.Resolve(rawType, raw)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "document", Message: document.Message(t)})
		}
		s.DocumentType = t
		s.Document = digits
	}
	if r.UserID != nil {
		if *r.UserID == "" {
			s.UserID = nil
		} else {
			id := *r.UserID
			s.UserID = &id
		}
	}
	if r.StartsAt != nil {
		s.StartsAt, _ = validator.IsValidDateTime(*r.StartsAt)
	}
	if r.EndsAt != nil {
		s.EndsAt, _ = validator.IsValidDateTime(*r.EndsAt)
	}
	if r.Status != nil {
		s.Status = Status(*r.Status)
	}
	if r.StartsAt != nil || r.EndsAt != nil {
		errs = append(errs, validateRange(s.StartsAt, s.EndsAt)...)
	}
	// A stored start comes back in the server's zone, so only a submitted one is judged for weekends.
	if r.StartsAt != nil {
		errs = append(errs, validateWeekday(s.StartsAt)...)
	}

	if len(errs) > 0 {
		return Session{}, errs
	}
	return s, nil
}

func validateTitle(title string) validator.ValidationErrors {
	if len(strings.TrimSpace(title)) < 3 {
		return validator.Single("title", "title must be at least 3 characters long")
	}
	if len(title) > 255 {
		return validator.Single("title", "title must not exceed 255 characters")
	}
	return nil
}

// validateSchedule requires start < end and a weekday start date, judged in the submitted offset.
func validateSchedule(start, end time.Time) validator.ValidationErrors {
	return append(validateRange(start, end), validateWeekday(start)...)
}

func validateRange(start, end time.Time) validator.ValidationErrors {
	if !start.Before(end) {
		return validator.Single("ends_at", "ends_at must be after starts_at")
	}
	return nil
}

func validateWeekday(start time.Time) validator.ValidationErrors {
	if validator.IsWeekend(start) {
		return validator.Single("starts_at", "trainings cannot start on a Saturday or Sunday")
	}
	return nil
}
