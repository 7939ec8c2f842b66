package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/config"
)

func TestLogin_PasswordStdin(t *testing.T) {
	home := setupCLI(t)
	t.Setenv("STOCKDESK_TOKEN", "stale")
	b := newFakeBackend(t, map[string]string{
		"POST /api/auth/login": `{"success":true,"data":{"token":"fresh-token","username":"admin","roles":["ADMIN"]}}`,
	})

	out, err := execute(t, b.URL, "s3cret\n", "login", "--username", "admin", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as admin")

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"username":"admin","password":"s3cret"}`, calls[0].body)
	assert.Empty(t, calls[0].auth, "the old token is not sent with the login")

	saved, err := config.LoadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", saved.API.Token)
	assert.Equal(t, b.URL, saved.API.BaseURL, "an explicit --api-url is remembered")
}

func TestLogin_PromptsForMissingCredentials(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"POST /api/auth/login": `{"token":"tok","username":"clerk"}`,
	})

	prev := credentialsFunc
	credentialsFunc = func(username, password *string) error {
		assert.Equal(t, "clerk", *username, "given flags are kept")
		*password = "pw"
		return nil
	}
	t.Cleanup(func() { credentialsFunc = prev })

	_, err := execute(t, b.URL, "", "login", "-u", "clerk")
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"clerk","password":"pw"}`, b.Calls()[0].body)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		status   int
		prompt   error
		wantErr  error
	}{
		{name: "bad credentials", response: `{"message":"Bad credentials"}`, status: 401},
		{name: "no token", response: `{"token":""}`},
		{name: "no terminal", prompt: ErrPromptUnavailable, wantErr: ErrPromptUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setupCLI(t)
			b := newFakeBackend(t, map[string]string{"POST /api/auth/login": tt.response})
			if tt.status != 0 {
				b.status["POST /api/auth/login"] = tt.status
			}
			prev := credentialsFunc
			credentialsFunc = func(_, password *string) error {
				if tt.prompt != nil {
					return tt.prompt
				}
				*password = "pw"
				return nil
			}
			t.Cleanup(func() { credentialsFunc = prev })

			_, err := execute(t, b.URL, "", "login", "-u", "admin")
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.NotErrorIs(t, err, ErrLoginRequired)
			assert.NoFileExists(t, filepath.Join(home, "config.yaml"))
		})
	}
}

func TestLogout(t *testing.T) {
	home := setupCLI(t)
	cfg := config.Defaults()
	cfg.SetPath(filepath.Join(home, "config.yaml"))
	cfg.API.Token = "tok"
	require.NoError(t, cfg.Save())

	out, err := execute(t, "", "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	saved, err := config.LoadFile(cfg.Path())
	require.NoError(t, err)
	assert.Empty(t, saved.API.Token)

	out, err = execute(t, "", "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestWhoami(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"GET /api/auth/profile": `{"id":1,"username":"admin","firstName":"Lan","lastName":"Tran","roles":["ADMIN","STAFF"]}`,
	})

	_, err := execute(t, b.URL, "", "whoami")
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Empty(t, b.Calls(), "no request without a token")

	t.Setenv("STOCKDESK_TOKEN", "tok")
	out, err := execute(t, b.URL, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Lan Tran")
	assert.Contains(t, out, "ADMIN, STAFF")
	assert.Contains(t, out, b.URL)
}
