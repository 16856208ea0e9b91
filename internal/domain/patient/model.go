package patient

// Patient is the profile returned by GET /api/patients/{healthId}.
type Patient struct {
	ID          int64  `json:"id"`
	HealthID    string `json:"healthId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// Registration is the sign-up form. DateOfBirth is an ISO date or empty.
type Registration struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	DateOfBirth *string `json:"dateOfBirth"`
}

// Registered is what the backend hands back after sign-up.
type Registered struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	HealthID string `json:"healthId"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Message  string `json:"message"`
	HealthID string `json:"healthId"`
}
