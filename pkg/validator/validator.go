package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
)

const (
	maxNameLength        = 50
	maxUsernameLength    = 50
	maxEmailLength       = 255
	maxTitleLength       = 255
	maxDescriptionLength = 1000
	minPasswordLength    = 8

	// DateLayout is the wire format of all submitted dates.
	DateLayout = "2006-01-02"
)

var (
	// Email: basic email validation
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	passwordSpecials = "@$!%*?&"
)

// Form validation messages, one per rule so every violated rule can be
// reported at once.
const (
	MsgAllFieldsRequired    = "All fields are required."
	MsgInvalidEmail         = "Please enter a valid email address."
	MsgUsernameTooLong      = "Username must be under 50 characters."
	MsgNamesTooLong         = "Names must be under 50 characters."
	MsgEmailTooLong         = "Email must be under 255 characters."
	MsgWeakPassword         = "Password must be at least 8 characters and include uppercase, lowercase, number, and special character."
	MsgPasswordMismatch     = "Passwords do not match."
	MsgProjectFieldsMissing = "Please fill in all required fields."
	MsgTitleTooLong         = "Title must be less than 255 characters."
	MsgDescriptionTooLong   = "Description must be under 1000 characters."
	MsgInvalidDate          = "Please enter a valid date."
	MsgEndBeforeStart       = "End date cannot be earlier than start date."
	MsgInvalidPhase         = "Please select a valid project phase."
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// SanitizeString removes null bytes and trims whitespace
func (v *Validator) SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return input
}

// ValidatePassword checks the password strength policy: at least 8
// characters including uppercase, lowercase, digit, and a special
// character from @$!%*?&, with no characters outside that set.
func (v *Validator) ValidatePassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, c):
			hasSpecial = true
		default:
			// Character outside the allowed set
			return false
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}

// ValidateEmail checks if email format is valid
func (v *Validator) ValidateEmail(email string) bool {
	return email != "" && emailRegex.MatchString(email)
}

// ValidateRegistration checks a registration submission and returns the
// ordered list of every violated rule.
func (v *Validator) ValidateRegistration(req *models.RegisterRequest) *errors.ValidationErrors {
	verrs := &errors.ValidationErrors{}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Username == "" || req.Password == "" {
		verrs.Add(MsgAllFieldsRequired)
	}
	if req.Email != "" && !v.ValidateEmail(req.Email) {
		verrs.Add(MsgInvalidEmail)
	}
	if len(req.Username) > maxUsernameLength {
		verrs.Add(MsgUsernameTooLong)
	}
	if len(req.FirstName) > maxNameLength || len(req.LastName) > maxNameLength {
		verrs.Add(MsgNamesTooLong)
	}
	if len(req.Email) > maxEmailLength {
		verrs.Add(MsgEmailTooLong)
	}
	if req.Password != "" && !v.ValidatePassword(req.Password) {
		verrs.Add(MsgWeakPassword)
	}
	if req.Password != req.ConfirmPassword {
		verrs.Add(MsgPasswordMismatch)
	}

	return verrs
}

// ValidateProject checks an add/edit submission and parses its dates.
// All violated rules are reported in order; the parsed dates are only
// meaningful when the returned list is empty.
func (v *Validator) ValidateProject(form *models.ProjectForm) (time.Time, *time.Time, *errors.ValidationErrors) {
	verrs := &errors.ValidationErrors{}

	if form.Title == "" || form.ShortDescription == "" || form.StartDate == "" || form.Phase == "" {
		verrs.Add(MsgProjectFieldsMissing)
	}
	if len(form.Title) > maxTitleLength {
		verrs.Add(MsgTitleTooLong)
	}
	if len(form.ShortDescription) > maxDescriptionLength {
		verrs.Add(MsgDescriptionTooLong)
	}

	var start time.Time
	var end *time.Time

	if form.StartDate != "" {
		parsed, err := time.Parse(DateLayout, form.StartDate)
		if err != nil {
			verrs.Add(MsgInvalidDate)
		} else {
			start = parsed
		}
	}

	if form.EndDate != "" {
		parsed, err := time.Parse(DateLayout, form.EndDate)
		if err != nil {
			verrs.Add(MsgInvalidDate)
		} else {
			end = &parsed
		}
	}

	// End date may be absent, but never earlier than the start date.
	if end != nil && !start.IsZero() && end.Before(start) {
		verrs.Add(MsgEndBeforeStart)
	}

	if form.Phase != "" && !models.Phase(form.Phase).Valid() {
		verrs.Add(MsgInvalidPhase)
	}

	return start, end, verrs
}

// ValidatePasswordChange checks a change-password submission. The
// current-password comparison happens in the auth service; this covers
// the form-level rules only.
func (v *Validator) ValidatePasswordChange(req *models.ChangePasswordRequest) *errors.ValidationErrors {
	verrs := &errors.ValidationErrors{}

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		verrs.Add("All password fields must be completed.")
	}
	if req.NewPassword != req.ConfirmPassword {
		verrs.Add("New passwords do not match.")
	}
	if req.NewPassword != "" && !v.ValidatePassword(req.NewPassword) {
		verrs.Add(MsgWeakPassword)
	}

	return verrs
}
