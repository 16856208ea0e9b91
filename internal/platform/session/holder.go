// Package session tracks which patient, doctor and admin identities the user
// is signed in as. The Holder is the only reader and writer of the Store; it
// re-reads on Sync, which callers invoke on every navigation.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrCorrupt is returned by FileStore.Load when the file is not valid JSON.
var ErrCorrupt = errors.New("session: corrupt session file")

// Kind selects which identity Logout clears.
type Kind int

const (
	Patient Kind = iota
	Doctor
	Admin
)

func (k Kind) String() string {
	switch k {
	case Patient:
		return "patient"
	case Doctor:
		return "doctor"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Routes the user is sent to after logging out.
const (
	RouteLogin       = "/login"
	RouteDoctorLogin = "/doctor/login"
	RouteAdminLogin  = "/admin/login"
)

// Link is one navigation entry. Action links log out instead of navigating.
type Link struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Action bool   `json:"action,omitempty"`
}

type Holder struct {
	store  Store
	logger zerolog.Logger

	mu sync.RWMutex
	v  Values
}

func NewHolder(store Store, logger zerolog.Logger) *Holder {
	return &Holder{store: store, logger: logger}
}

// Sync reloads the in-memory copy from the store. A corrupt file is treated
// as an empty session so that a bad file never locks the user out.
func (h *Holder) Sync() error {
	v, err := h.store.Load()
	if errors.Is(err, ErrCorrupt) {
		h.logger.Warn().Err(err).Msg("ignoring unreadable session")
		v, err = Values{}, nil
	}
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.v = v
	h.mu.Unlock()
	return nil
}

func (h *Holder) Values() Values {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.v
}

func (h *Holder) HealthID() string   { return h.Values().HealthID }
func (h *Holder) DoctorID() string   { return h.Values().DoctorID }
func (h *Holder) DoctorName() string { return h.Values().DoctorName }
func (h *Holder) AdminToken() string { return h.Values().AdminToken }

func (h *Holder) PatientLoggedIn() bool { return h.HealthID() != "" }
func (h *Holder) DoctorLoggedIn() bool  { return h.DoctorID() != "" }

func (h *Holder) SetPatient(healthID string) error {
	return h.update(func(v *Values) { v.HealthID = healthID })
}

func (h *Holder) SetDoctor(id, name string) error {
	return h.update(func(v *Values) {
		v.DoctorID = id
		v.DoctorName = name
	})
}

func (h *Holder) SetAdminToken(tok string) error {
	return h.update(func(v *Values) { v.AdminToken = tok })
}

// Logout clears only the identity named by kind and returns the route to
// navigate to.
func (h *Holder) Logout(kind Kind) (string, error) {
	switch kind {
	case Patient:
		return RouteLogin, h.update(func(v *Values) { v.HealthID = "" })
	case Doctor:
		return RouteDoctorLogin, h.update(func(v *Values) {
			v.DoctorID = ""
			v.DoctorName = ""
		})
	case Admin:
		return RouteAdminLogin, h.update(func(v *Values) { v.AdminToken = "" })
	default:
		return "", fmt.Errorf("unknown session kind %s", kind)
	}
}

// update applies fn on top of the latest stored values so that a write from
// another process between Sync calls is not lost.
func (h *Holder) update(fn func(*Values)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.store.Load()
	if errors.Is(err, ErrCorrupt) {
		v, err = Values{}, nil
	}
	if err != nil {
		return err
	}
	fn(&v)
	if err := h.store.Save(v); err != nil {
		return err
	}
	h.v = v
	return nil
}

// Nav computes the visible navigation from token presence alone.
func (h *Holder) Nav() []Link {
	v := h.Values()
	links := []Link{
		{Label: "Home", Path: "/"},
		{Label: "Appointments", Path: "/appointments"},
	}
	if v.HealthID != "" {
		links = append(links, Link{Label: "Profile", Path: "/profile"})
	}
	links = append(links, Link{Label: "Admin", Path: "/admin/appointments"})
	if v.HealthID == "" && v.DoctorID == "" {
		links = append(links,
			Link{Label: "Register", Path: "/register"},
			Link{Label: "Login", Path: RouteLogin},
			Link{Label: "Doctor Login", Path: RouteDoctorLogin},
		)
	}
	if v.DoctorID != "" {
		links = append(links, Link{Label: "Doctor", Path: "/doctor/profile"})
	}
	if v.HealthID != "" {
		links = append(links, Link{Label: "Logout", Path: RouteLogin, Action: true})
	}
	if v.DoctorID != "" {
		links = append(links, Link{Label: "Doctor Logout", Path: RouteDoctorLogin, Action: true})
	}
	return links
}
