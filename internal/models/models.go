package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is a server-assigned user identifier. The API may send it as a JSON
// string or number; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts string, number, and null ids
func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the textual id
func (id ID) String() string {
	return string(id)
}

// NoDepartment is displayed for users without a department.
const NoDepartment = "No Department"

// User is a record managed by the remote API
type User struct {
	ID         ID      `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
}

// FullName returns "First Last"
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DepartmentLabel returns the department or NoDepartment when unset
func (u User) DepartmentLabel() string {
	if u.Department == nil || *u.Department == "" {
		return NoDepartment
	}
	return *u.Department
}

// Draft holds user-entered field values not yet accepted by the API.
// It is the request body for create and update.
type Draft struct {
	FirstName  string `json:"firstName" validate:"required,alphaunicode,min=3"`
	LastName   string `json:"lastName" validate:"required,alphaunicode,min=3"`
	Email      string `json:"email" validate:"required,simpleemail"`
	Department string `json:"department" validate:"required,alphaunicode"`
}

// DraftFrom pre-fills a draft from an existing user
func DraftFrom(u User) Draft {
	d := Draft{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
	if u.Department != nil {
		d.Department = *u.Department
	}
	return d
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (d Draft) Trimmed() Draft {
	return Draft{
		FirstName:  strings.TrimSpace(d.FirstName),
		LastName:   strings.TrimSpace(d.LastName),
		Email:      strings.TrimSpace(d.Email),
		Department: strings.TrimSpace(d.Department),
	}
}

// Page is one page of users plus the collection's total count
type Page struct {
	Items      []User
	TotalCount int
}

// TotalPages returns ceil(TotalCount / pageSize)
func (p Page) TotalPages(pageSize int) int {
	return TotalPages(p.TotalCount, pageSize)
}

// TotalPages returns ceil(total / pageSize), 0 when either is non-positive
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePageSize clamps size to the valid range
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Config is the persisted and environment-overridable configuration
type Config struct {
	APIURL         string        `json:"api_url,omitempty" env:"USERDASH_API_URL"`
	PageSize       int           `json:"page_size,omitempty" env:"USERDASH_PAGE_SIZE"`
	RequestTimeout time.Duration `json:"request_timeout,omitempty" env:"USERDASH_TIMEOUT"`
	LogFile        string        `json:"log_file,omitempty" env:"USERDASH_LOG_FILE"`
	JournalPath    string        `json:"journal_path,omitempty" env:"USERDASH_JOURNAL"`
	NoticeTTL      time.Duration `json:"notice_ttl,omitempty" env:"USERDASH_NOTICE_TTL"`
	CloseDelay     time.Duration `json:"close_delay,omitempty" env:"USERDASH_CLOSE_DELAY"`
}

// ActionType identifies a journaled mutation
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// ActivityEntry is one row of the local activity journal
type ActivityEntry struct {
	ID        int64
	Action    ActionType
	UserID    ID
	Summary   string
	OK        bool
	Error     string
	Timestamp time.Time
}
