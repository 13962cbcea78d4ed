package controllers

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/view"
)

// Placeholder messages for the doctor listing.
const (
	MsgNoDoctors         = "No doctors found."
	MsgNoFilteredDoctors = "No doctors found with the given filters."
	MsgDoctorsError      = "Error loading doctors. Try again later."
)

// DoctorSource lists doctors, unfiltered or by filter snapshot.
type DoctorSource interface {
	ListDoctors(ctx context.Context) ([]doctor.Doctor, error)
	FilterDoctors(ctx context.Context, name, time, specialty string) ([]doctor.Doctor, error)
}

// DoctorFilter is the current filter snapshot. Empty fields mean no constraint.
type DoctorFilter struct {
	Name      string
	Time      string
	Specialty string
}

// DoctorListController owns the doctor listing's filter state and re-renders
// the container after every trigger.
type DoctorListController struct {
	source    DoctorSource
	container *html.Node
	build     func(doctor.Doctor) *html.Node
	filter    DoctorFilter
}

// NewDoctorListController creates a controller rendering into container.
// PRE: source, container and build are non-nil
func NewDoctorListController(source DoctorSource, container *html.Node, build func(doctor.Doctor) *html.Node) *DoctorListController {
	return &DoctorListController{source: source, container: container, build: build}
}

// Filter returns the current snapshot.
func (c *DoctorListController) Filter() DoctorFilter {
	return c.filter
}

// Restore sets the snapshot without fetching, for state carried across requests.
func (c *DoctorListController) Restore(f DoctorFilter) {
	c.filter = DoctorFilter{Name: strings.TrimSpace(f.Name), Time: f.Time, Specialty: f.Specialty}
}

// Load renders the unfiltered listing.
// POST: exactly one list call; container holds the doctors or a placeholder
func (c *DoctorListController) Load(ctx context.Context) error {
	doctors, err := c.source.ListDoctors(ctx)
	return c.show(doctors, err, MsgNoDoctors)
}

// OnNameInput updates the name and re-filters.
// POST: exactly one filter call with the full snapshot
func (c *DoctorListController) OnNameInput(ctx context.Context, value string) error {
	c.filter.Name = strings.TrimSpace(value)
	return c.refresh(ctx)
}

// OnTimeChange updates the time and re-filters.
// POST: exactly one filter call with the full snapshot
func (c *DoctorListController) OnTimeChange(ctx context.Context, value string) error {
	c.filter.Time = value
	return c.refresh(ctx)
}

// OnSpecialtyChange updates the specialty and re-filters.
// POST: exactly one filter call with the full snapshot
func (c *DoctorListController) OnSpecialtyChange(ctx context.Context, value string) error {
	c.filter.Specialty = value
	return c.refresh(ctx)
}

func (c *DoctorListController) refresh(ctx context.Context) error {
	f := c.filter
	doctors, err := c.source.FilterDoctors(ctx, f.Name, f.Time, f.Specialty)
	return c.show(doctors, err, MsgNoFilteredDoctors)
}

// show renders doctors, or an explicit error placeholder on failure so a
// stale listing is never left on screen silently.
func (c *DoctorListController) show(doctors []doctor.Doctor, err error, empty string) error {
	if err != nil {
		slog.Warn("doctor_event", "event", "list_failed", "error", err)
		view.Render(c.container, nil, c.build, MsgDoctorsError)
		return err
	}
	view.Render(c.container, doctors, c.build, empty)
	return nil
}
