package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PersonalData is ground truth supplied by the user before screening starts.
// It is never produced by the model; after synthesis it overwrites the
// identity fields of the generated resume.
type PersonalData struct {
	FullName  string `json:"fullName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=8"`
	Address   string `json:"address" validate:"required"`
	Linkedin  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Github    string `json:"github,omitempty" validate:"omitempty,url"`
	Portfolio string `json:"portfolio,omitempty" validate:"omitempty,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first offending field of the personal data, with a
// message suitable for showing to the user.
func (p *PersonalData) Validate() error {
	if err := validate.Struct(p); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return fmt.Errorf("campo %s inválido (%s)", strings.ToLower(invalid[0].Field()), invalid[0].Tag())
		}
		return err
	}
	return nil
}

// ApplyPersonalData overwrites exactly the identity fields of the generated
// resume with user-supplied ground truth. Non-identity fields (summary,
// experience, education, skills) are left untouched, and nothing flows in the
// reverse direction.
func ApplyPersonalData(p *UserProfile, pd *PersonalData) {
	if p == nil || pd == nil {
		return
	}

	p.Resume.FullName = pd.FullName
	p.Resume.Location = pd.Address
	p.Resume.Email = pd.Email
	p.Resume.Phone = pd.Phone
	p.Resume.Linkedin = pd.Linkedin
	p.Resume.Github = pd.Github
	p.Resume.Portfolio = pd.Portfolio
	p.Resume.ContactPlaceholder = fmt.Sprintf("%s | %s", pd.Email, pd.Phone)
}
