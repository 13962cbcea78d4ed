package web

import (
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hospitalcms/internal/application/controllers"
	"hospitalcms/internal/application/orchestrators"
	"hospitalcms/internal/domain/appointment"
	"hospitalcms/internal/domain/doctor"
	"hospitalcms/internal/domain/entity"
	"hospitalcms/internal/domain/patient"
	"hospitalcms/internal/view"
)

// MsgDoctorNotFound is shown when a booking names a doctor the backend no longer lists.
const MsgDoctorNotFound = "Doctor not found."

// doctorListing is the filter bar state and the rendered card container.
type doctorListing struct {
	Filter      controllers.DoctorFilter
	Cards       template.HTML
	Times       []string
	Specialties []string
	Path        string
}

// listDoctors renders the doctor cards for the filter in the query string.
// Any filter value triggers one filter call with the whole snapshot;
// otherwise the unfiltered list is loaded.
func (a *App) listDoctors(r *http.Request, ch *chrome, path string) (doctorListing, error) {
	deps := view.CardDeps{
		Doctors:   a.backend,
		Patients:  a.backend,
		Signals:   ch.signals,
		CSRFToken: csrf.Token(r),
	}
	container := view.NewContainer(atom.Div, "content")
	ctl := controllers.NewDoctorListController(a.backend, container, func(d doctor.Doctor) *html.Node {
		return view.BuildDoctorCard(d, ch.sess, deps).Node
	})

	q := r.URL.Query()
	f := controllers.DoctorFilter{Name: q.Get("name"), Time: q.Get("time"), Specialty: q.Get("specialty")}
	if f != (controllers.DoctorFilter{}) {
		ctl.Restore(f)
		_ = ctl.OnNameInput(r.Context(), f.Name)
	} else {
		_ = ctl.Load(r.Context())
	}

	cards, err := view.InnerHTML(container)
	if err != nil {
		return doctorListing{}, err
	}
	return doctorListing{
		Filter:      ctl.Filter(),
		Cards:       cards,
		Times:       timeOptions,
		Specialties: specialties,
		Path:        path,
	}, nil
}

type adminDashboard struct {
	Listing     doctorListing
	Specialties []string
	Slots       []string
}

// handleAdminDashboard handles GET /admin/dashboard
func (a *App) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	listing, err := a.listDoctors(r, ch, "/admin/dashboard")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, r, ch, "admin_dashboard.html", "Admin Dashboard", adminDashboard{
		Listing:     listing,
		Specialties: specialties,
		Slots:       availabilitySlots,
	})
}

// handleAddDoctor handles POST /admin/doctors
func (a *App) handleAddDoctor(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.AddDoctorInput{
		Token: ch.sess.Token,
		Doctor: doctor.NewDoctor{
			Name:           r.FormValue("name"),
			Email:          r.FormValue("email"),
			Phone:          r.FormValue("phone"),
			Password:       r.FormValue("password"),
			Specialty:      r.FormValue("specialty"),
			AvailableTimes: r.Form["availability"],
		},
	}
	deps := orchestrators.AddDoctorDeps{Doctors: a.backend, Mailer: a.mailer}

	msg, err := orchestrators.ExecuteAddDoctor(r.Context(), input, deps)
	if err != nil {
		a.redirectWith(w, r, "/admin/dashboard?modal=addDoctor", userMessage("Failed to add doctor: ", err))
		return
	}
	a.redirectWith(w, r, "/admin/dashboard", msg)
}

type confirmPage struct {
	Question string
	Action   string
	Name     string
	Cancel   string
}

// handleDeleteDoctor handles POST /admin/doctors/{id}/delete. Without
// confirmed=true the confirmation question is shown instead.
func (a *App) handleDeleteDoctor(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	d := doctor.Doctor{ID: entity.ID(r.PathValue("id")), Name: r.FormValue("name")}
	prompt := &view.Confirmation{Confirmed: r.FormValue("confirmed") == "true"}
	card := view.BuildDoctorCard(d, ch.sess, view.CardDeps{
		Doctors:   a.backend,
		Prompt:    prompt,
		Signals:   ch.signals,
		CSRFToken: csrf.Token(r),
	})
	if card.Action == nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	container := view.NewContainer(atom.Div, "content")
	container.AppendChild(card.Node)
	card.Action.Invoke(r.Context(), card.Node)

	if prompt.Pending != "" {
		a.render(w, r, ch, "confirm.html", "Confirm", confirmPage{
			Question: prompt.Pending,
			Action:   r.URL.Path,
			Name:     d.Name,
			Cancel:   "/admin/dashboard",
		})
		return
	}
	a.finish(w, r, ch.signals, "/admin/dashboard")
}

type patientDashboard struct {
	Listing doctorListing
	Overlay template.HTML
}

// handlePatientDashboard handles GET /patient/dashboard for guests and logged-in patients.
func (a *App) handlePatientDashboard(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	a.renderPatientDashboard(w, r, ch, "")
}

func (a *App) renderPatientDashboard(w http.ResponseWriter, r *http.Request, ch *chrome, overlay template.HTML) {
	listing, err := a.listDoctors(r, ch, "/patient/dashboard")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, r, ch, "patient_dashboard.html", "Patient Dashboard", patientDashboard{
		Listing: listing,
		Overlay: overlay,
	})
}

// overlayCapture records the booking overlay a card action opens.
type overlayCapture struct {
	csrf    string
	minDate string
	node    *html.Node
}

func (o *overlayCapture) Show(_ *html.Node, d doctor.Doctor, p patient.Patient) {
	o.node = view.BuildBookingOverlay(d, p, o.csrf, o.minDate)
}

// handleBookDoctor handles POST /patient/doctors/{id}/book. Guests are told
// to log in; logged-in patients get the booking overlay over the listing.
func (a *App) handleBookDoctor(w http.ResponseWriter, r *http.Request) {
	ch, ok := a.beginPage(w, r)
	if !ok {
		return
	}
	d, found, err := a.findDoctor(r, entity.ID(r.PathValue("id")))
	if err != nil {
		a.redirectWith(w, r, "/patient/dashboard", view.MsgBookingError)
		return
	}
	if !found {
		a.redirectWith(w, r, "/patient/dashboard", MsgDoctorNotFound)
		return
	}

	overlay := &overlayCapture{csrf: csrf.Token(r), minDate: a.now().Format(appointment.DateLayout)}
	card := view.BuildDoctorCard(d, ch.sess, view.CardDeps{
		Patients:  a.backend,
		Overlay:   overlay,
		Signals:   ch.signals,
		CSRFToken: csrf.Token(r),
	})
	container := view.NewContainer(atom.Div, "content")
	container.AppendChild(card.Node)
	if card.Action != nil {
		card.Action.Invoke(r.Context(), card.Node)
	}

	if overlay.node == nil {
		a.finish(w, r, ch.signals, "/patient/dashboard")
		return
	}
	rendered, err := view.HTML(overlay.node)
	if err != nil {
		internalError(w, err)
		return
	}
	a.renderPatientDashboard(w, r, ch, rendered)
}

func (a *App) findDoctor(r *http.Request, id entity.ID) (doctor.Doctor, bool, error) {
	doctors, err := a.backend.ListDoctors(r.Context())
	if err != nil {
		return doctor.Doctor{}, false, err
	}
	for _, d := range doctors {
		if d.ID == id {
			return d, true, nil
		}
	}
	return doctor.Doctor{}, false, nil
}
