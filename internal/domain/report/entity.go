package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of report dates.
const DateLayout = "2006-01-02"

type Type string

const (
	TypePlan   Type = "plan"   // Morning plan
	TypeActual Type = "actual" // Evening actual, reconciled against the plan
)

func (t Type) Valid() bool {
	return t == TypePlan || t == TypeActual
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Date is a calendar day without time-of-day, exchanged as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to midnight UTC of its calendar day in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// SameDay reports whether d falls on the calendar day of t in t's location.
func (d Date) SameDay(t time.Time) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	*d = parsed
	return nil
}

type BranchRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Report is one daily submission for a branch. Actual reports point at the
// plan report of the same branch and date through PlanReportID.
type Report struct {
	ID             string     `json:"id"`
	Date           Date       `json:"date"`
	Branch         BranchRef  `json:"branch"`
	WriteOffs      float64    `json:"writeOffs"`
	NinetyPlus     float64    `json:"ninetyPlus"`
	WriteOffsPlan  *float64   `json:"writeOffsPlan,omitempty"`
	NinetyPlusPlan *float64   `json:"ninetyPlusPlan,omitempty"`
	ReportType     Type       `json:"reportType"`
	Status         Status     `json:"status"`
	Content        *string    `json:"content,omitempty"`
	SubmittedBy    UserRef    `json:"submittedBy"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	ReviewedBy     *string    `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	Comments       *string    `json:"comments,omitempty"`
	PlanReportID   *string    `json:"planReportId,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (r *Report) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Report) IsRejected() bool {
	return r.Status == StatusRejected
}
