package profile

import (
	"strings"

	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/form"
)

// Validate applies the customer form rules: name, phone and address are
// required, the phone is exactly 10 digits and email is optional. Failures
// are reported as *form.ValidationError.
func Validate(user domain.UserProfile) error {
	return form.Validate(Normalize(user))
}

// Normalize trims the free-text fields the way the form submits them.
func Normalize(user domain.UserProfile) domain.UserProfile {
	user.Name = strings.TrimSpace(user.Name)
	user.Phone = strings.TrimSpace(user.Phone)
	user.Address = strings.TrimSpace(user.Address)
	user.Email = strings.TrimSpace(user.Email)
	return user
}
