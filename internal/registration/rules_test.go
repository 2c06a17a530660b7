package registration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{FullName: "Ada Lovelace", Age: "16", Email: "ada@example.nl"}
}

func requireFieldError(t *testing.T, err error, field string) FieldError {
	t.Helper()
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	fe, ok := ve.Lookup(field)
	require.True(t, ok, "expected error for %s in %v", field, ve.Fields)
	return fe
}

func TestValidateFormAccepts(t *testing.T) {
	details, err := NewValidator().ValidateForm(validForm())
	require.NoError(t, err)
	require.NotNil(t, details.Age)
	assert.Equal(t, 16, *details.Age)
	assert.Equal(t, "Ada Lovelace", details.FullName)
}

func TestValidateFormAgeBoundaries(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		age      string
		category Category
		message  string
	}{
		{age: "13", category: CategoryUnderage, message: "You must be 14 or older to participate"},
		{age: "14"},
		{age: "100"},
		{age: "101", category: CategoryOutOfRange, message: "Please enter a valid age"},
		{age: "", category: CategoryRequired, message: "Age is required"},
		{age: "   ", category: CategoryRequired, message: "Age is required"},
		{age: "twelve", category: CategoryOutOfRange, message: "Please enter a valid age"},
		{age: " 15 "},
	}

	for _, tc := range cases {
		t.Run("age="+tc.age, func(t *testing.T) {
			form := validForm()
			form.Age = tc.age
			_, err := v.ValidateForm(form)
			if tc.category == "" {
				require.NoError(t, err)
				return
			}
			fe := requireFieldError(t, err, FieldAge)
			assert.Equal(t, tc.category, fe.Category)
			assert.Equal(t, tc.message, fe.Message)
		})
	}
}

func TestValidateFormEmailBoundaries(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		email    string
		category Category
		message  string
	}{
		{email: "a@b.co"},
		{email: "abc", category: CategoryMalformed, message: "Please enter a valid email address"},
		{email: "a@b", category: CategoryMalformed, message: "Please enter a valid email address"},
		{email: "a b@c.nl", category: CategoryMalformed, message: "Please enter a valid email address"},
		{email: "", category: CategoryRequired, message: "Email is required"},
		{email: "  ", category: CategoryRequired, message: "Email is required"},
		{email: strings.Repeat("a", 250) + "@b.com", category: CategoryTooLong, message: "Email must be 255 characters or fewer"},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			form := validForm()
			form.Email = tc.email
			_, err := v.ValidateForm(form)
			if tc.category == "" {
				require.NoError(t, err)
				return
			}
			fe := requireFieldError(t, err, FieldEmail)
			assert.Equal(t, tc.category, fe.Category)
			assert.Equal(t, tc.message, fe.Message)
		})
	}
}

func TestValidateFormFullName(t *testing.T) {
	v := NewValidator()

	form := validForm()
	form.FullName = "   "
	_, err := v.ValidateForm(form)
	fe := requireFieldError(t, err, FieldFullName)
	assert.Equal(t, CategoryRequired, fe.Category)
	assert.Equal(t, "Full legal name is required", fe.Message)

	form.FullName = strings.Repeat("é", 101)
	_, err = v.ValidateForm(form)
	fe = requireFieldError(t, err, FieldFullName)
	assert.Equal(t, CategoryTooLong, fe.Category)
	assert.Equal(t, "Full legal name must be 100 characters or fewer", fe.Message)

	form.FullName = strings.Repeat("é", 100)
	_, err = v.ValidateForm(form)
	assert.NoError(t, err)
}

func TestValidateFormReportsAllFields(t *testing.T) {
	_, err := NewValidator().ValidateForm(Form{FullName: "", Age: "10", Email: "bad"})

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Fields, 3)
	assert.Equal(t, map[string]string{
		FieldFullName: "Full legal name is required",
		FieldAge:      "You must be 14 or older to participate",
		FieldEmail:    "Please enter a valid email address",
	}, ve.Messages())
	assert.Equal(t, FieldAge, ve.Fields[0].Field)
}

func TestValidateFormUnparsableAgeKeepsOtherErrors(t *testing.T) {
	_, err := NewValidator().ValidateForm(Form{FullName: "", Age: "x", Email: ""})

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Fields, 3)
	assert.Equal(t, "Please enter a valid age", ve.Messages()[FieldAge])
	assert.Contains(t, ve.Error(), "email: Email is required")
}

func TestStructSubmissionRequiresLessonTitle(t *testing.T) {
	age := 30
	err := DefaultValidator().Struct(Submission{
		Details: Details{FullName: "Grace Hopper", Age: &age, Email: "grace@example.com"},
	})

	fe := requireFieldError(t, err, FieldLessonTitle)
	assert.Equal(t, CategoryRequired, fe.Category)
	assert.Equal(t, "Lesson title is required", fe.Message)
}

func TestStructSubmissionMissingAge(t *testing.T) {
	err := DefaultValidator().Struct(Submission{
		Details:     Details{FullName: "Grace Hopper", Email: "grace@example.com"},
		LessonTitle: "Datastructuren in Python",
	})

	fe := requireFieldError(t, err, FieldAge)
	assert.Equal(t, CategoryRequired, fe.Category)
	assert.Equal(t, "Age is required", fe.Message)
}

func TestStructSubmissionValid(t *testing.T) {
	age := 14
	err := DefaultValidator().Struct(Submission{
		Details:        Details{FullName: "Grace Hopper", Age: &age, Email: "grace@example.com"},
		LessonTitle:    "Datastructuren in Python",
		LessonLanguage: "Python",
		LessonLevel:    "Intermediate",
	})
	assert.NoError(t, err)
}
