package appointment

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediway/mediway/internal/domain/doctor"
	"github.com/mediway/mediway/internal/domain/patient"
	"github.com/mediway/mediway/internal/platform/query"
)

// Hints shown under the slot picker.
const (
	HintChooseDoctorAndDate = "Choose a doctor and date to see available slots"
	HintNoSlots             = "No slots available for this day"
)

// RouteProfile is where a confirmed booking navigates to.
const RouteProfile = "/profile"

// DefaultRedirectDelay is how long the confirmation stays up before
// navigating.
const DefaultRedirectDelay = 1800 * time.Millisecond

// PatientLookup resolves a health ID. A nil patient with nil error means
// "nobody to show".
type PatientLookup interface {
	Get(ctx context.Context, healthID string) (*patient.Patient, error)
}

type DoctorLister interface {
	List(ctx context.Context) ([]doctor.Doctor, error)
}

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// BookingOption configures a Controller.
type BookingOption func(*Controller)

func WithRedirectDelay(d time.Duration) BookingOption {
	return func(c *Controller) { c.redirectDelay = d }
}

func WithBookingLogger(l zerolog.Logger) BookingOption {
	return func(c *Controller) { c.logger = l }
}

// Controller drives the booking form: health ID, then doctor and date, then
// a slot, then submit. Patient and slot lookups run in the background and
// only the response for the latest input is kept.
type Controller struct {
	svc           *Service
	patients      PatientLookup
	doctors       DoctorLister
	nav           Navigator
	redirectDelay time.Duration
	logger        zerolog.Logger

	patientQ *query.Query[string, *patient.Patient]
	slotQ    *query.Query[SlotKey, []string]

	mu         sync.Mutex
	healthID   string
	doctorList []doctor.Doctor
	doctorID   int64
	date       string
	slot       string
	status     string
}

func NewController(svc *Service, patients PatientLookup, doctors DoctorLister, nav Navigator, opts ...BookingOption) *Controller {
	c := &Controller{
		svc:           svc,
		patients:      patients,
		doctors:       doctors,
		nav:           nav,
		redirectDelay: DefaultRedirectDelay,
		logger:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.patientQ = query.New(func(ctx context.Context, healthID string) (*patient.Patient, error) {
		return c.patients.Get(ctx, healthID)
	})
	c.slotQ = query.New(c.svc.Slots)
	return c
}

// SetHealthID starts a patient lookup for id. An empty id clears the patient.
func (c *Controller) SetHealthID(ctx context.Context, id string) {
	id = strings.TrimSpace(id)
	c.mu.Lock()
	c.healthID = id
	c.mu.Unlock()

	if id == "" {
		c.patientQ.Clear()
		return
	}
	c.patientQ.Set(ctx, id)
}

func (c *Controller) HealthID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthID
}

// Patient is the looked-up patient, or nil while loading, after a failure,
// or when no health ID is set.
func (c *Controller) Patient() *patient.Patient {
	st := c.patientQ.State()
	if st.Status != query.Resolved {
		return nil
	}
	return st.Data
}

// LoadDoctors fetches the doctor list. On failure the list is left empty.
func (c *Controller) LoadDoctors(ctx context.Context) error {
	list, err := c.doctors.List(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("doctor list unavailable")
		list = nil
	}
	c.mu.Lock()
	c.doctorList = list
	c.mu.Unlock()
	return err
}

func (c *Controller) Doctors() []doctor.Doctor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]doctor.Doctor(nil), c.doctorList...)
}

// SelectDoctor changes the doctor. The slot list and selected slot are
// cleared before the new slot fetch starts.
func (c *Controller) SelectDoctor(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doctorID = id
	c.resetSlotLocked()
	c.fetchSlotsLocked(ctx)
}

// SetDate changes the date with the same reset as SelectDoctor.
func (c *Controller) SetDate(ctx context.Context, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = strings.TrimSpace(date)
	c.resetSlotLocked()
	c.fetchSlotsLocked(ctx)
}

func (c *Controller) resetSlotLocked() {
	c.slot = ""
	c.slotQ.Clear()
}

// fetchSlotsLocked starts the slot fetch once both doctor and date are set.
// The query never calls back into the controller, so holding c.mu here
// keeps the issued key in step with the latest selection.
func (c *Controller) fetchSlotsLocked(ctx context.Context) {
	if c.doctorID <= 0 || c.date == "" {
		return
	}
	c.slotQ.Set(ctx, SlotKey{DoctorID: c.doctorID, Date: c.date})
}

// Slots is the slot list for the current doctor and date.
func (c *Controller) Slots() []string {
	st := c.slotQ.State()
	if st.Status != query.Resolved {
		return nil
	}
	return append([]string(nil), st.Data...)
}

// SelectSlot picks one of the listed slots. "09:00" matches a listed
// "09:00:00"; the listed form is what gets booked.
func (c *Controller) SelectSlot(slot string) error {
	slot = strings.TrimSpace(slot)
	for _, s := range c.Slots() {
		if s == slot || ShortTime(s) == slot {
			c.mu.Lock()
			c.slot = s
			c.mu.Unlock()
			return nil
		}
	}
	return ErrUnknownSlot
}

func (c *Controller) Slot() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slot
}

// CanSubmit is true once health ID, patient, doctor, date and slot are all
// present.
func (c *Controller) CanSubmit() bool {
	p := c.Patient()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthID != "" && p != nil && c.doctorID > 0 && c.date != "" && c.slot != ""
}

// Status is the inline message above the form.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Submit books the selected slot. Selections survive a failure so the user
// can resubmit. On success the returned Confirmation navigates to the
// profile after the redirect delay.
func (c *Controller) Submit(ctx context.Context) (*Confirmation, error) {
	ready := c.CanSubmit()

	c.mu.Lock()
	c.status = ""
	req := BookRequest{HealthID: c.healthID, DoctorID: c.doctorID, Date: c.date, Time: c.slot}
	if !ready {
		c.status = MsgIncomplete
		c.mu.Unlock()
		return nil, ErrIncomplete
	}
	c.mu.Unlock()

	a, err := c.svc.Book(ctx, req)
	if err != nil {
		c.mu.Lock()
		c.status = MsgBookingFailed
		c.mu.Unlock()
		c.logger.Debug().Err(err).
			Str("health_id", req.HealthID).
			Int64("doctor_id", req.DoctorID).
			Str("date", req.Date).
			Str("time", req.Time).
			Msg("booking rejected")
		return nil, err
	}
	return newConfirmation(a, c.nav, c.redirectDelay), nil
}

// Wait blocks until the patient and slot lookups in flight have settled.
func (c *Controller) Wait(ctx context.Context) error {
	if _, err := c.patientQ.Wait(ctx); err != nil {
		return err
	}
	_, err := c.slotQ.Wait(ctx)
	return err
}

// View is a snapshot of the whole form.
type View struct {
	HealthID       string           `json:"healthId"`
	Patient        *patient.Patient `json:"patient,omitempty"`
	PatientLoading bool             `json:"patientLoading"`
	Doctors        []doctor.Doctor  `json:"doctors"`
	DoctorID       int64            `json:"doctorId,omitempty"`
	Date           string           `json:"date,omitempty"`
	Slots          []string         `json:"slots"`
	SlotsLoading   bool             `json:"slotsLoading"`
	Slot           string           `json:"slot,omitempty"`
	Hint           string           `json:"hint,omitempty"`
	Status         string           `json:"status,omitempty"`
	CanSubmit      bool             `json:"canSubmit"`
}

func (c *Controller) View() View {
	pst := c.patientQ.State()
	sst := c.slotQ.State()
	can := c.CanSubmit()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		HealthID:       c.healthID,
		PatientLoading: pst.Loading(),
		Doctors:        append([]doctor.Doctor(nil), c.doctorList...),
		DoctorID:       c.doctorID,
		Date:           c.date,
		SlotsLoading:   sst.Loading(),
		Slot:           c.slot,
		Status:         c.status,
		CanSubmit:      can,
	}
	if pst.Status == query.Resolved {
		v.Patient = pst.Data
	}
	if sst.Status == query.Resolved {
		v.Slots = append([]string(nil), sst.Data...)
	}
	switch {
	case c.doctorID <= 0 || c.date == "":
		v.Hint = HintChooseDoctorAndDate
	case len(v.Slots) == 0 && !v.SlotsLoading:
		v.Hint = HintNoSlots
	}
	return v
}

// Confirmation is the "Appointment booked!" overlay. Unless Stay is called
// it navigates to the profile once the delay elapses.
type Confirmation struct {
	Appointment *Appointment

	nav   Navigator
	timer *time.Timer

	mu        sync.Mutex
	settled   bool
	navigated bool
	done      chan struct{}
}

func newConfirmation(a *Appointment, nav Navigator, delay time.Duration) *Confirmation {
	cf := &Confirmation{Appointment: a, nav: nav, done: make(chan struct{})}
	cf.mu.Lock()
	cf.timer = time.AfterFunc(delay, cf.GoNow)
	cf.mu.Unlock()
	return cf
}

// Stay dismisses the overlay without navigating. It reports false if the
// navigation had already happened.
func (cf *Confirmation) Stay() bool {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cf.settled {
		return !cf.navigated
	}
	cf.timer.Stop()
	cf.settled = true
	close(cf.done)
	return true
}

// GoNow navigates immediately. Calling it after Stay or a previous
// navigation does nothing.
func (cf *Confirmation) GoNow() {
	cf.mu.Lock()
	if cf.settled {
		cf.mu.Unlock()
		return
	}
	cf.timer.Stop()
	cf.settled = true
	cf.navigated = true
	cf.mu.Unlock()

	if cf.nav != nil {
		cf.nav.Navigate(RouteProfile)
	}
	close(cf.done)
}

// Done is closed once the overlay is dismissed or has navigated.
func (cf *Confirmation) Done() <-chan struct{} { return cf.done }

func (cf *Confirmation) Navigated() bool {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.navigated
}
