package doctor

import (
	"io"
	"strconv"
)

// Doctor is a doctor profile without photo bytes.
type Doctor struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

// IDString is the form the session stores.
func (d *Doctor) IDString() string {
	return strconv.FormatInt(d.ID, 10)
}

// Photo is an image upload.
type Photo struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// Form is the admin create/update form. On update, empty fields are left
// unchanged by the backend and a nil Photo keeps the stored one.
type Form struct {
	Name           string
	Email          string
	Specialization string
	Photo          *Photo
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
