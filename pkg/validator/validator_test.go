package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirk1998/project-tracker/internal/models"
)

func TestValidatePassword(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "P@ssw0rd!", true},
		{"valid minimal length", "Aa1@aaaa", true},
		{"too short", "Aa1@aaa", false},
		{"no uppercase", "aa1@aaaa", false},
		{"no lowercase", "AA1@AAAA", false},
		{"no digit", "Aa@aaaaa", false},
		{"no special", "Aa1aaaaa", false},
		{"special outside allowed set", "Aa1#aaaa", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ValidatePassword(tt.password))
		})
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	v := New()

	req := &models.RegisterRequest{
		FirstName:       "Jo",
		LastName:        "Lee",
		Email:           "jo@example.com",
		Username:        "jolee",
		Password:        "P@ssw0rd!",
		ConfirmPassword: "P@ssw0rd!",
	}

	verrs := v.ValidateRegistration(req)
	assert.False(t, verrs.HasErrors())
}

func TestValidateRegistration_CollectsAllViolations(t *testing.T) {
	v := New()

	req := &models.RegisterRequest{
		FirstName:       "Jo",
		LastName:        "Lee",
		Email:           "not-an-email",
		Username:        strings.Repeat("u", 51),
		Password:        "weak",
		ConfirmPassword: "different",
	}

	verrs := v.ValidateRegistration(req)
	require.True(t, verrs.HasErrors())

	// Every violated rule is reported, in rule order
	assert.Equal(t, []string{
		MsgInvalidEmail,
		MsgUsernameTooLong,
		MsgWeakPassword,
		MsgPasswordMismatch,
	}, verrs.Messages)
}

func TestValidateRegistration_MissingFields(t *testing.T) {
	v := New()

	verrs := v.ValidateRegistration(&models.RegisterRequest{})
	require.True(t, verrs.HasErrors())
	assert.Contains(t, verrs.Messages, MsgAllFieldsRequired)
}

func TestValidateProject_Valid(t *testing.T) {
	v := New()

	form := &models.ProjectForm{
		Title:            "Website redesign",
		ShortDescription: "Refresh the marketing site.",
		StartDate:        "2025-01-10",
		EndDate:          "2025-03-01",
		Phase:            "design",
	}

	start, end, verrs := v.ValidateProject(form)
	require.False(t, verrs.HasErrors())
	assert.Equal(t, "2025-01-10", start.Format(DateLayout))
	require.NotNil(t, end)
	assert.Equal(t, "2025-03-01", end.Format(DateLayout))
}

func TestValidateProject_EndDateOptional(t *testing.T) {
	v := New()

	form := &models.ProjectForm{
		Title:            "Ongoing work",
		ShortDescription: "No end in sight.",
		StartDate:        "2025-01-10",
		Phase:            "development",
	}

	_, end, verrs := v.ValidateProject(form)
	assert.False(t, verrs.HasErrors())
	assert.Nil(t, end)
}

func TestValidateProject_EndBeforeStart(t *testing.T) {
	v := New()

	form := &models.ProjectForm{
		Title:            "Backwards",
		ShortDescription: "Ends before it starts.",
		StartDate:        "2025-03-01",
		EndDate:          "2025-01-10",
		Phase:            "testing",
	}

	_, _, verrs := v.ValidateProject(form)
	require.True(t, verrs.HasErrors())
	assert.Equal(t, []string{MsgEndBeforeStart}, verrs.Messages)
}

func TestValidateProject_TitleLength(t *testing.T) {
	v := New()

	form := &models.ProjectForm{
		Title:            strings.Repeat("t", 256),
		ShortDescription: "Fine.",
		StartDate:        "2025-01-10",
		Phase:            "design",
	}

	_, _, verrs := v.ValidateProject(form)
	require.True(t, verrs.HasErrors())
	assert.Equal(t, []string{MsgTitleTooLong}, verrs.Messages)

	// 255 is the boundary, still accepted
	form.Title = strings.Repeat("t", 255)
	_, _, verrs = v.ValidateProject(form)
	assert.False(t, verrs.HasErrors())
}

func TestValidateProject_InvalidPhase(t *testing.T) {
	v := New()

	form := &models.ProjectForm{
		Title:            "Bad phase",
		ShortDescription: "Phase is not enumerated.",
		StartDate:        "2025-01-10",
		Phase:            "shipping",
	}

	_, _, verrs := v.ValidateProject(form)
	require.True(t, verrs.HasErrors())
	assert.Equal(t, []string{MsgInvalidPhase}, verrs.Messages)
}

func TestValidateProject_MultipleViolations(t *testing.T) {
	v := New()

	form := &models.ProjectForm{
		Title:            strings.Repeat("t", 300),
		ShortDescription: strings.Repeat("d", 1001),
		StartDate:        "2025-03-01",
		EndDate:          "2025-01-01",
		Phase:            "design",
	}

	_, _, verrs := v.ValidateProject(form)
	assert.Equal(t, []string{
		MsgTitleTooLong,
		MsgDescriptionTooLong,
		MsgEndBeforeStart,
	}, verrs.Messages)
}

func TestSanitizeString(t *testing.T) {
	v := New()

	assert.Equal(t, "hello", v.SanitizeString("  hello \x00 "))
	assert.Equal(t, "", v.SanitizeString("\x00"))
}
