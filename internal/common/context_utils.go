package common

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	HostelIDKey contextKey = "hostel_id"
	RoleKey     contextKey = "role"
)

// Paginated is the list envelope returned by every list endpoint.
type Paginated struct {
	Items       interface{} `json:"items"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Total       int         `json:"total"`
}

// NewPaginated builds the list envelope from a page-based query.
func NewPaginated(items interface{}, total, page, limit int) *Paginated {
	if limit <= 0 {
		limit = 10
	}
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	return &Paginated{
		Items:       items,
		TotalPages:  totalPages,
		CurrentPage: page,
		Total:       total,
	}
}

// PageToOffset converts page/limit query values to limit/offset with bounds.
func PageToOffset(page, limit int) (int, int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

// ValidateUUID validates UUID path/query parameters.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid identifier", fieldName)
	}

	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,13}$`)

// ValidatePhone validates a tenant/emergency phone number.
func ValidatePhone(phone, fieldName string) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%s must be a 10-13 digit phone number", fieldName)
	}
	return nil
}

var aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)

// ValidateAadhaar validates the 12-digit national ID. Optional fields pass
// an empty string through.
func ValidateAadhaar(aadhaar, fieldName string) error {
	if strings.TrimSpace(aadhaar) == "" {
		return nil
	}
	if !aadhaarPattern.MatchString(aadhaar) {
		return fmt.Errorf("%s must be a 12 digit number", fieldName)
	}
	return nil
}

// ValidateDateFormat validates date strings in YYYY-MM-DD form.
func ValidateDateFormat(dateStr, fieldName string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	return date, nil
}

// ValidatePositiveFloat validates positive float values with upper bounds
func ValidatePositiveFloat(value float64, fieldName string, maxValue float64) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if value > maxValue {
		return fmt.Errorf("%s cannot exceed %.2f", fieldName, maxValue)
	}
	return nil
}

// SanitizeSearchQuery strips LIKE wildcards from user-supplied search terms.
func SanitizeSearchQuery(query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}

	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")

	if len(query) > 100 {
		query = query[:100]
	}

	return strings.TrimSpace(query)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetHostelIDFromContext extracts the hostel ID from the request context
func GetHostelIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	hostelID, ok := ctx.Value(HostelIDKey).(uuid.UUID)
	return hostelID, ok
}

// GetRoleFromContext extracts the caller's role from the request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
