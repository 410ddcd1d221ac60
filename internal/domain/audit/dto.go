package audit

import "github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListFilter struct {
	EntityID string
	Page     int
	Limit    int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Limit < 0 || f.Limit > MaxPageSize {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type ListResponse struct {
	Data       []Log      `json:"data"`
	Pagination Pagination `json:"pagination"`
}
