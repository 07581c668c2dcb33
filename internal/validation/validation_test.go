package validation

import (
	"strings"
	"testing"

	"github.com/mytherion/client/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterForm() RegisterForm {
	return RegisterForm{
		Email:           "a@b.co",
		Username:        "ann",
		Password:        "12345678",
		ConfirmPassword: "12345678",
	}
}

func TestRegisterFormValid(t *testing.T) {
	errs := validRegisterForm().Validate()
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestRegisterFormEmail(t *testing.T) {
	tests := []struct {
		email    string
		expected string
	}{
		{email: "", expected: "Email is required"},
		{email: "not-an-email", expected: "Invalid email format"},
		{email: "a b@c.de", expected: "Invalid email format"},
		{email: "a@b.co", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			form := validRegisterForm()
			form.Email = tt.email
			assert.Equal(t, tt.expected, form.Validate()["email"])
		})
	}
}

func TestRegisterFormPasswordLength(t *testing.T) {
	tests := []struct {
		length   int
		expected string
	}{
		{length: 0, expected: "Password is required"},
		{length: 7, expected: "Password must be at least 8 characters"},
		{length: 8, expected: ""},
		{length: 72, expected: ""},
		{length: 73, expected: "Password must be at most 72 characters"},
	}

	for _, tt := range tests {
		form := validRegisterForm()
		form.Password = strings.Repeat("x", tt.length)
		form.ConfirmPassword = form.Password
		assert.Equal(t, tt.expected, form.Validate()["password"], "length %d", tt.length)
	}
}

func TestRegisterFormUsernameAndConfirmation(t *testing.T) {
	form := validRegisterForm()
	form.Username = "ab"
	form.ConfirmPassword = "12345679"

	errs := form.Validate()
	assert.Equal(t, "Username must be at least 3 characters", errs["username"])
	assert.Equal(t, "Passwords do not match", errs["confirmPassword"])

	form.Username = strings.Repeat("u", 33)
	form.ConfirmPassword = ""
	errs = form.Validate()
	assert.Equal(t, "Username must be at most 32 characters", errs["username"])
	assert.Equal(t, "Please confirm your password", errs["confirmPassword"])
}

func TestErrorsClear(t *testing.T) {
	errs := RegisterForm{}.Validate()
	require.Len(t, errs, 4)

	errs.Clear("email")
	assert.False(t, errs.Has("email"))
	assert.Len(t, errs, 3)
	assert.Error(t, errs.Err())
	assert.Contains(t, errs.Error(), "password: Password is required")
}

func TestRegisterFormRequestDropsConfirmation(t *testing.T) {
	form := validRegisterForm()
	form.Email = " a@b.co "
	req := form.Request()
	assert.Equal(t, types.RegisterRequest{Email: "a@b.co", Username: "ann", Password: "12345678"}, req)
}

func TestLoginForm(t *testing.T) {
	errs := LoginForm{Email: "a@b.co", Password: "x"}.Validate()
	assert.Empty(t, errs)

	errs = LoginForm{Email: "nope"}.Validate()
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Password is required", errs["password"])
}

func TestProjectForm(t *testing.T) {
	assert.Empty(t, ProjectForm{Name: "Eldoria"}.Validate())
	assert.Equal(t, "Project name is required", ProjectForm{Name: "   "}.Validate()["name"])
	assert.Equal(t,
		"Project name must be less than 255 characters",
		ProjectForm{Name: strings.Repeat("n", 256)}.Validate()["name"],
	)
}

func TestProjectFormUpdateRequestOnlyChangedFields(t *testing.T) {
	current := types.Project{ID: 5, Name: "Eldoria", Description: "A world"}

	form := ProjectFormOf(current)
	form.Description = "A darker world"

	req := form.UpdateRequest(current)
	assert.Nil(t, req.Name)
	require.NotNil(t, req.Description)
	assert.Equal(t, "A darker world", *req.Description)
	assert.Equal(t, []string{"description"}, req.Fields())
}

func TestEntityForm(t *testing.T) {
	valid := EntityForm{Type: types.EntityItem, Name: "Sword", Tags: []string{"magic", "relic"}}
	assert.Empty(t, valid.Validate())

	tests := []struct {
		name     string
		mutate   func(*EntityForm)
		field    string
		expected string
	}{
		{name: "blank name", mutate: func(f *EntityForm) { f.Name = " " }, field: "name", expected: "Name is required"},
		{name: "long name", mutate: func(f *EntityForm) { f.Name = strings.Repeat("n", 256) }, field: "name", expected: "Name must be 255 characters or less"},
		{name: "long summary", mutate: func(f *EntityForm) { f.Summary = strings.Repeat("s", 1001) }, field: "summary", expected: "Summary must be 1000 characters or less"},
		{name: "duplicate tags", mutate: func(f *EntityForm) { f.Tags = []string{"magic", "magic"} }, field: "tags", expected: "Tag already exists"},
		{name: "long tag", mutate: func(f *EntityForm) { f.Tags = []string{strings.Repeat("t", 31)} }, field: "tags", expected: "Tag must be 30 characters or less"},
		{name: "missing type", mutate: func(f *EntityForm) { f.Type = "" }, field: "type", expected: "Type is required"},
		{name: "unknown type", mutate: func(f *EntityForm) { f.Type = "DRAGON" }, field: "type", expected: "Type must be one of CHARACTER, LOCATION, ORGANIZATION, SPECIES, CULTURE, ITEM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			form.Tags = append([]string(nil), valid.Tags...)
			tt.mutate(&form)
			errs := form.Validate()
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.expected, errs[tt.field])
		})
	}
}

func TestEntityFormUpdateRequest(t *testing.T) {
	current := types.Entity{ID: 9, Type: types.EntityItem, Name: "Sword", Tags: []string{"magic"}}

	form := EntityFormOf(current)
	assert.Empty(t, form.UpdateRequest(current).Fields())

	form.Tags = append(form.Tags, "relic")
	form.Summary = "sharp"
	req := form.UpdateRequest(current)
	assert.Equal(t, []string{"summary", "tags"}, req.Fields())
	assert.Equal(t, []string{"magic", "relic"}, *req.Tags)
	assert.Equal(t, []string{"magic"}, current.Tags)
}

func TestTagSetRejectsDuplicate(t *testing.T) {
	set := NewTagSet(0)

	require.NoError(t, set.Add("magic"))
	err := set.Add("magic")
	require.ErrorIs(t, err, ErrDuplicateTag)
	assert.Equal(t, "Tag already exists", err.Error())
	assert.Equal(t, []string{"magic"}, set.Tags())
}

func TestTagSetMaxLength(t *testing.T) {
	set := NewTagSet(5)

	err := set.Add("abcdef")
	require.Error(t, err)
	assert.Equal(t, "Tag must be 5 characters or less", err.Error())
	assert.Equal(t, 0, set.Len())

	require.NoError(t, set.Add(" abcde "))
	require.NoError(t, set.Add("  "))
	assert.Equal(t, []string{"abcde"}, set.Tags())
}

func TestTagSetRemove(t *testing.T) {
	set := NewTagSet(0, "a", "b", "a", "c")
	assert.Equal(t, []string{"a", "b", "c"}, set.Tags())

	set.Remove("b")
	assert.Equal(t, []string{"a", "c"}, set.Tags())

	tags := set.Tags()
	tags[0] = "mutated"
	assert.Equal(t, []string{"a", "c"}, set.Tags())
}
