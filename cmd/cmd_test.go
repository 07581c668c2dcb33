package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mytherion/client/config"
	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/fakeapi"
	"github.com/mytherion/client/internal/services"
	"github.com/mytherion/client/internal/validation"
	"github.com/mytherion/client/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "correct horse"
)

type harness struct {
	backend *fakeapi.Server
	app     *app
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newHarness(t *testing.T, withCredentials bool) *harness {
	t.Helper()

	backend := fakeapi.New(fakeapi.Options{Secret: "test-secret"})
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Config{
		Env:      "test",
		LogLevel: "error",
		API:      config.APIConfig{BaseURL: ts.URL + "/api"},
	}
	if withCredentials {
		seedAccount(t, backend, ts.URL+"/api")
		cfg.Session = config.SessionConfig{Email: testEmail, Password: testPassword}
	}

	a := newApp(cfg)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	a.in = strings.NewReader("")
	a.out = out
	a.errOut = errOut
	return &harness{backend: backend, app: a, out: out, errOut: errOut}
}

// seedAccount registers and verifies the test account out of band.
func seedAccount(t *testing.T, backend *fakeapi.Server, baseURL string) {
	t.Helper()
	ctx := context.Background()

	client, err := api.New(api.Config{BaseURL: baseURL})
	require.NoError(t, err)
	svc := services.New(client, nil)

	_, err = svc.Auth.Register(ctx, types.RegisterRequest{Email: testEmail, Username: "ada", Password: testPassword})
	require.NoError(t, err)
	token, ok := backend.VerificationToken(testEmail)
	require.True(t, ok)
	_, err = svc.Auth.VerifyEmail(ctx, token)
	require.NoError(t, err)
}

func (h *harness) run(args ...string) (string, error) {
	h.out.Reset()
	root := newRootCmd(h.app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return h.out.String(), err
}

func (h *harness) input(s string) {
	h.app.in = strings.NewReader(s)
	h.app.lines = nil
}

func TestRegisterThenVerify(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.run("register",
		"--email", testEmail,
		"--username", "ada",
		"--password", testPassword,
		"--confirm-password", testPassword,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Registered ada. Check ada@example.com for a verification link.")
	assert.False(t, h.app.store.Auth.State().IsAuthenticated)

	_, err = h.run("whoami")
	assert.ErrorIs(t, err, errNotAuthenticated)

	token, ok := h.backend.VerificationToken(testEmail)
	require.True(t, ok)

	out, err = h.run("verify-email", token)
	require.NoError(t, err)
	assert.Contains(t, out, "Email verified. Logged in as ada.")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, testEmail)
	assert.Contains(t, out, "yes")
}

func TestRegisterValidatesBeforeCallingTheAPI(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.run("register",
		"--email", "not-an-email",
		"--username", "ad",
		"--password", "short",
		"--confirm-password", "different",
	)
	require.Error(t, err)

	var fieldErrs validation.Errors
	require.True(t, errors.As(err, &fieldErrs))
	for _, field := range []string{"email", "username", "password", "confirmPassword"} {
		assert.True(t, fieldErrs.Has(field), field)
	}
	_, ok := h.backend.VerificationToken("not-an-email")
	assert.False(t, ok)
}

func TestLoginAndLogout(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("login", "--email", testEmail, "--password", testPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada.")

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.Nil(t, h.app.store.Auth.State().User)
}

func TestLoginFailureIsTheServerMessage(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("login", "--email", testEmail, "--password", "wrong password")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Equal(t, "Invalid email or password", h.app.store.Auth.State().Error)
}

func TestResendVerification(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.run("resend-verification", "nobody@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "nobody@example.com")
}

func TestDebugLogNamesAPIRoot(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("--log-level", "debug", "projects", "list")
	require.NoError(t, err)
	assert.Contains(t, h.errOut.String(), "API client ready")
	assert.Contains(t, h.errOut.String(), h.app.cfg.API.BaseURL)
}

func TestProjectsRequireSession(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.run("projects", "list")
	assert.ErrorIs(t, err, errNotAuthenticated)
}

func TestProjectCommands(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.run("projects", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects yet.")

	out, err = h.run("projects", "create", "--name", "Eldoria", "--description", "High fantasy")
	require.NoError(t, err)
	assert.Contains(t, out, `Created project 1 "Eldoria".`)

	out, err = h.run("projects", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Eldoria")
	assert.Contains(t, out, "High fantasy")
	assert.Contains(t, out, "Page 1 of 1 (1 total)")

	out, err = h.run("projects", "update", "1", "--name", "Eldoria Reborn")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated project 1 (name).")

	out, err = h.run("projects", "update", "1", "--description", "High fantasy")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to update.")

	out, err = h.run("projects", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Eldoria Reborn")

	out, err = h.run("projects", "stats", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Eldoria Reborn: 0 entities")
	assert.Contains(t, out, "CHARACTER")

	out, err = h.run("projects", "delete", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project 1.")
	assert.Nil(t, h.app.store.Projects.State().CurrentProject)

	out, err = h.run("projects", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects yet.")
}

func TestProjectListPastLastPage(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("projects", "create", "--name", "Eldoria")
	require.NoError(t, err)

	out, err := h.run("projects", "list", "--page", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Eldoria")
	assert.Contains(t, out, "Page 1 of 1 (1 total)")
	assert.True(t, h.app.store.Projects.State().Pagination.Valid())
}

func TestProjectDeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("projects", "create", "--name", "Eldoria")
	require.NoError(t, err)

	h.input("n\n")
	out, err := h.run("projects", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "This will also delete all entities.")
	assert.Contains(t, out, "Aborted.")

	h.input("yes\n")
	out, err = h.run("projects", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project 1.")
}

func TestProjectCreateRejectsBlankName(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("projects", "create", "--name", "   ")
	require.Error(t, err)
	assert.Equal(t, "name: Project name is required", err.Error())
	assert.Empty(t, h.app.store.Projects.State().Projects)
}

func TestProjectInvalidID(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("projects", "get", "abc")
	require.Error(t, err)
	assert.Equal(t, `invalid project id "abc"`, err.Error())
}

func TestEntityCommands(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("projects", "create", "--name", "Eldoria")
	require.NoError(t, err)

	out, err := h.run("entities", "create", "1", "--type", "item", "--name", "Sunblade", "--tag", "magic", "--tag", "relic")
	require.NoError(t, err)
	assert.Contains(t, out, `Created item 1 "Sunblade".`)
	require.NotNil(t, h.app.store.Entities.State().CurrentEntity)

	_, err = h.run("entities", "create", "1", "--type", "CHARACTER", "--name", "Aria", "--summary", "A wandering mage")
	require.NoError(t, err)

	out, err = h.run("entities", "list", "1", "--type", "ITEM")
	require.NoError(t, err)
	assert.Contains(t, out, "Sunblade")
	assert.NotContains(t, out, "Aria")

	out, err = h.run("entities", "list", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Aria", "filters are kept between listings")

	out, err = h.run("entities", "list", "1", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Sunblade")
	assert.Contains(t, out, "Aria")
	assert.Contains(t, out, "Page 1 of 1 (2 total)")

	out, err = h.run("entities", "list", "1", "--search", "dragon")
	require.NoError(t, err)
	assert.Contains(t, out, "No entities match the current filters.")

	out, err = h.run("entities", "update", "1", "--tag", "magic")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated entity 1 (tags).")

	out, err = h.run("entities", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "magic")
	assert.NotContains(t, out, "relic")

	out, err = h.run("entities", "delete", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted entity 1.")
	assert.Nil(t, h.app.store.Entities.State().CurrentEntity)
}

func TestEntityCreateRejectsDuplicateTag(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("projects", "create", "--name", "Eldoria")
	require.NoError(t, err)

	_, err = h.run("entities", "create", "1", "--type", "ITEM", "--name", "Sunblade", "--tag", "relic", "--tag", "relic")
	require.Error(t, err)
	assert.Equal(t, "tags: Tag already exists", err.Error())
}

func TestEntityCreateRejectsUnknownType(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.run("entities", "create", "1", "--type", "dragon", "--name", "Smaug")
	require.Error(t, err)

	var fieldErrs validation.Errors
	require.True(t, errors.As(err, &fieldErrs))
	assert.True(t, fieldErrs.Has("type"))
}

func TestShellKeepsSession(t *testing.T) {
	h := newHarness(t, true)
	h.app.cfg.Session = config.SessionConfig{}

	h.input(strings.Join([]string{
		"login --email " + testEmail + ` --password "correct horse"`,
		`projects create --name "Eldoria Reborn"`,
		"",
		"projects list",
		"bogus",
		"exit",
		"whoami",
	}, "\n"))

	out, err := h.run("shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada.")
	assert.Contains(t, out, `Created project 1 "Eldoria Reborn".`)
	assert.Contains(t, out, "Page 1 of 1 (1 total)")
	assert.NotContains(t, out, testEmail, "nothing runs after exit")
	assert.Contains(t, h.errOut.String(), `unknown command "bogus"`)
}

func TestShellEndsAtEOF(t *testing.T) {
	h := newHarness(t, false)
	h.input("resend-verification nobody@example.com")

	out, err := h.run("shell")
	require.NoError(t, err)
	assert.Contains(t, out, "nobody@example.com")
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "", want: nil},
		{line: "   ", want: nil},
		{line: "# comment", want: nil},
		{line: "projects list", want: []string{"projects", "list"}},
		{line: "projects   list  --page 2", want: []string{"projects", "list", "--page", "2"}},
		{line: `projects create --name "Eldoria Reborn"`, want: []string{"projects", "create", "--name", "Eldoria Reborn"}},
		{line: `entities create 1 --name "The ""Old"" King"`, want: []string{"entities", "create", "1", "--name", `The "Old" King`}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := splitLine(`projects create --name "Eldoria`)
	assert.Error(t, err)
}

func TestRenderFooter(t *testing.T) {
	var buf bytes.Buffer
	renderFooter(&buf, types.Pagination{Page: 0, Size: 2, TotalPages: 3, TotalElements: 5})
	assert.Equal(t, "Page 1 of 3 (5 total), next: --page 1\n", buf.String())

	buf.Reset()
	renderFooter(&buf, types.Pagination{Page: 0, Size: 20})
	assert.Equal(t, "Page 1 of 1 (0 total)\n", buf.String())
}
