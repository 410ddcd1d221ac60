// Package reportview keeps the state behind the report listing screen: the
// active filter, the fetched page, and the create and edit forms.
package reportview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/client"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateSuccess State = "success"
	StateError   State = "error"
)

var (
	ErrNoBranchSelected = errors.New("select a branch first")
	ErrPlanCheckFailed  = errors.New("failed to verify plan report existence")
	ErrFormNotOpen      = errors.New("no report form is open")
	ErrSubmitting       = errors.New("a submission is already in progress")
)

const (
	fetchFailedMessage     = "Failed to fetch reports"
	planCheckFailedMessage = "Failed to verify plan report existence. Please try again."
)

// API is the part of the REST client the view needs.
type API interface {
	ListReports(ctx context.Context, filter report.ListFilter) (report.ListResponse, error)
	CreateReport(ctx context.Context, req report.CreateReportRequest) (report.Report, error)
	UpdateReport(ctx context.Context, req report.UpdateReportRequest) (report.Report, error)
}

type Filter struct {
	Date       string
	BranchID   string
	ReportType report.Type
	Page       int
	Limit      int
}

func (f Filter) listFilter() report.ListFilter {
	return report.ListFilter{
		Date:       f.Date,
		BranchID:   f.BranchID,
		ReportType: f.ReportType,
		Page:       f.Page,
		Limit:      f.Limit,
	}
}

// Form is the raw input of the create and edit dialogs.
type Form struct {
	WriteOffs  string
	NinetyPlus string
	Content    string
}

func (f Form) amounts() (writeOffs, ninetyPlus float64, err error) {
	var errs validator.ValidationErrors
	writeOffs, err = report.ParseAmount(report.FieldWriteOffs, f.WriteOffs)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	ninetyPlus, err = report.ParseAmount(report.FieldNinetyPlus, f.NinetyPlus)
	if err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if len(errs) > 0 {
		return 0, 0, errs
	}
	return writeOffs, ninetyPlus, nil
}

func (f Form) content() *string {
	c := strings.TrimSpace(f.Content)
	if c == "" {
		return nil
	}
	return &c
}

// Snapshot is a consistent copy of the view state.
type Snapshot struct {
	Filter     Filter
	State      State
	Reports    []report.Report
	Pagination report.Pagination
	Error      string
	Submitting bool
	Creating   report.Type
	Editing    *report.Report
}

type View struct {
	api   API
	actor access.Actor
	now   func() time.Time

	mu         sync.Mutex
	filter     Filter
	state      State
	reports    []report.Report
	pagination report.Pagination
	errMsg     string
	submitting bool
	generation uint64
	creating   report.Type
	editing    *report.Report
}

// New builds a view for actor. now must return times in the business
// timezone; the initial filter is today's plan reports of the actor's home
// branch.
func New(api API, actor access.Actor, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	return &View{
		api:   api,
		actor: actor,
		now:   now,
		state: StateIdle,
		filter: Filter{
			Date:       now().Format(report.DateLayout),
			BranchID:   actor.BranchID,
			ReportType: report.TypePlan,
			Page:       1,
			Limit:      report.DefaultPageSize,
		},
	}
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := Snapshot{
		Filter:     v.filter,
		State:      v.state,
		Reports:    append([]report.Report(nil), v.reports...),
		Pagination: v.pagination,
		Error:      v.errMsg,
		Submitting: v.submitting,
		Creating:   v.creating,
	}
	if v.editing != nil {
		r := *v.editing
		s.Editing = &r
	}
	return s
}

// SetDate changes the day shown and goes back to the first page.
func (v *View) SetDate(date string) error {
	if _, ok := validator.IsValidDate(date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.Date = date
	v.filter.Page = 1
	return nil
}

func (v *View) SetBranch(branchID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.BranchID = strings.TrimSpace(branchID)
	v.filter.Page = 1
}

func (v *View) SetReportType(t report.Type) error {
	if !t.Valid() {
		return validator.ValidationErrors{{Field: "reportType", Message: "reportType must be one of: plan, actual"}}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.ReportType = t
	v.filter.Page = 1
	return nil
}

func (v *View) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.Page = page
}

// Refresh fetches the page described by the current filter. When another
// Refresh starts before this one answers, this answer is dropped.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	filter := v.filter
	v.state = StateLoading
	v.errMsg = ""
	v.mu.Unlock()

	res, err := v.api.ListReports(ctx, filter.listFilter())

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return nil
	}

	if err != nil {
		v.state = StateError
		v.errMsg = errorMessage(err, fetchFailedMessage)
		return err
	}

	v.reports = res.Data
	if res.Pagination != nil {
		v.pagination = *res.Pagination
	} else {
		v.pagination = report.NewPagination(int64(len(res.Data)), filter.Page, filter.Limit)
	}
	if len(res.Data) == 0 {
		v.state = StateEmpty
	} else {
		v.state = StateSuccess
	}
	return nil
}

// startSubmit marks the view busy. The returned func clears the flag.
func (v *View) startSubmit() (func(), error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.submitting {
		return nil, ErrSubmitting
	}
	v.submitting = true
	return func() {
		v.mu.Lock()
		v.submitting = false
		v.mu.Unlock()
	}, nil
}

// BeginCreate opens the create form for t. An actual report needs a plan
// report for the same day and branch; without one the view switches to the
// plan tab and returns report.ErrPlanReportRequired without opening the form.
func (v *View) BeginCreate(ctx context.Context, t report.Type) error {
	if !t.Valid() {
		return validator.ValidationErrors{{Field: "reportType", Message: "reportType must be one of: plan, actual"}}
	}

	v.mu.Lock()
	filter := v.filter
	v.mu.Unlock()
	if filter.BranchID == "" {
		return ErrNoBranchSelected
	}

	if t == report.TypeActual {
		done, err := v.startSubmit()
		if err != nil {
			return err
		}
		defer done()

		res, err := v.api.ListReports(ctx, report.ListFilter{
			Date:       filter.Date,
			BranchID:   filter.BranchID,
			ReportType: report.TypePlan,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPlanCheckFailed, err)
		}
		if len(res.Data) == 0 {
			v.mu.Lock()
			v.filter.ReportType = report.TypePlan
			v.filter.Page = 1
			v.mu.Unlock()
			return report.ErrPlanReportRequired
		}
	}

	v.mu.Lock()
	v.creating = t
	v.mu.Unlock()
	return nil
}

// CancelCreate closes the create form.
func (v *View) CancelCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.creating = ""
}

// Create submits the open create form for the filter's day and branch.
// Invalid amounts are rejected before any request is made.
func (v *View) Create(ctx context.Context, form Form) (report.Report, error) {
	v.mu.Lock()
	t := v.creating
	filter := v.filter
	v.mu.Unlock()
	if t == "" {
		return report.Report{}, ErrFormNotOpen
	}

	writeOffs, ninetyPlus, err := form.amounts()
	if err != nil {
		return report.Report{}, err
	}

	done, err := v.startSubmit()
	if err != nil {
		return report.Report{}, err
	}
	defer done()

	created, err := v.api.CreateReport(ctx, report.CreateReportRequest{
		Date:       filter.Date,
		BranchID:   filter.BranchID,
		ReportType: t,
		WriteOffs:  writeOffs,
		NinetyPlus: ninetyPlus,
		Content:    form.content(),
	})
	if err != nil {
		return report.Report{}, err
	}

	v.mu.Lock()
	v.creating = ""
	v.mu.Unlock()

	_ = v.Refresh(ctx)
	return created, nil
}

// BeginEdit opens r in the edit form when the session may edit it.
func (v *View) BeginEdit(r report.Report) error {
	if err := report.CanEdit(v.actor, r, v.now()); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = &r
	return nil
}

// CancelEdit closes the edit form.
func (v *View) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = nil
}

// SubmitEdit saves the open edit form and returns the confirmation message.
// Invalid amounts are rejected before any request is made.
func (v *View) SubmitEdit(ctx context.Context, form Form) (string, error) {
	v.mu.Lock()
	editing := v.editing
	v.mu.Unlock()
	if editing == nil {
		return "", ErrFormNotOpen
	}

	writeOffs, ninetyPlus, err := form.amounts()
	if err != nil {
		return "", err
	}

	done, err := v.startSubmit()
	if err != nil {
		return "", err
	}
	defer done()

	if _, err := v.api.UpdateReport(ctx, report.UpdateReportRequest{
		ID:         editing.ID,
		WriteOffs:  writeOffs,
		NinetyPlus: ninetyPlus,
		Content:    form.content(),
	}); err != nil {
		return "", err
	}

	v.mu.Lock()
	v.editing = nil
	v.mu.Unlock()

	_ = v.Refresh(ctx)
	return report.UpdateMessage(editing.Status), nil
}

// ErrorMessage is the sentence shown to the user for an error returned by
// the view.
func ErrorMessage(err error) string {
	if errors.Is(err, ErrPlanCheckFailed) {
		return planCheckFailedMessage
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.First()
	}
	return errorMessage(err, err.Error())
}

func errorMessage(err error, fallback string) string {
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg, ok := report.UserMessage(err); ok {
		return msg
	}
	return fallback
}
