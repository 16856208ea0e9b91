package admin

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and where the UI goes next.
type LoginResponse struct {
	Token    string `json:"token,omitempty"`
	Redirect string `json:"redirect"`
}

// RouteAppointments is the landing page after a successful admin login.
const RouteAppointments = "/admin/appointments"

const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoginRequired      = "Please login as admin."
)
