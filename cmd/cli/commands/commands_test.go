package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/internal/config"
	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/core/services"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fakeBackend serves the endpoints the commands call
func fakeBackend(t *testing.T, calls *atomic.Int32) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			calls.Add(1)
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token":    "t1",
			"userId":   7,
			"username": "alice",
			"role":     "ORGANIZER",
		})
	})
	r.Get("/api/events", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer t1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, []model.Event{{
			ID:                   1,
			Title:                "Beach clean",
			EventDate:            "2099-07-01T10:00:00",
			Location:             "Shore",
			Capacity:             2,
			Active:               true,
			RegisteredVolunteers: []model.UserSummary{{ID: 3}, {ID: 7}},
		}})
	})
	r.Get("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	return r
}

func testApp(t *testing.T, handler http.Handler, input string) (*AppContext, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ctx := context.Background()
	logger := zap.NewNop()
	store := session.NewStore(session.NewMemoryKV(), session.NewLocalBroker(), logger)
	client := apiclient.NewClient(apiclient.Options{BaseURL: server.URL + "/api"},
		apiclient.NewStoreTokenSource(ctx, store), logger)

	var out bytes.Buffer
	return &AppContext{
		Cfg:     &config.Config{APIBaseURL: server.URL + "/api"},
		Client:  client,
		Store:   store,
		Events:  services.NewEventBoard(client, store, logger),
		Profile: services.NewProfileEditor(client, store, logger),
		Notices: &services.NoticeBoard{},
		Logger:  logger,
		Ctx:     ctx,
		In:      bufio.NewReader(strings.NewReader(input)),
		Out:     &out,
	}, &out
}

func TestProtectedCommandsRequireToken(t *testing.T) {
	var calls atomic.Int32
	app, out := testApp(t, fakeBackend(t, &calls), "")

	for _, cmd := range []*cobra.Command{
		EventsCmd(app),
		ProfileCmd(app),
		OrganizationsCmd(app),
		CreateEventCmd(app),
	} {
		t.Run(cmd.Name(), func(t *testing.T) {
			err := runInShell(cmd, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "please log in first")
		})
	}

	assert.Empty(t, out.String(), "nothing is rendered before the guard decides")
	assert.Zero(t, calls.Load())
}

func TestLoginThenEvents(t *testing.T) {
	var calls atomic.Int32
	app, out := testApp(t, fakeBackend(t, &calls), "")

	require.NoError(t, runInShell(LoginCmd(app), []string{"alice", "--password", "pw"}))
	assert.Contains(t, out.String(), "Logged in as alice")
	assert.Contains(t, out.String(), "Create Event [createEvent]")

	sess, ok, err := app.Store.Read(app.Ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "7", sess.UserID)

	out.Reset()
	require.NoError(t, runInShell(EventsCmd(app), nil))
	assert.Contains(t, out.String(), "Beach clean")
	assert.Contains(t, out.String(), "[Registered]")
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	var calls atomic.Int32
	app, out := testApp(t, fakeBackend(t, &calls), "alice\npw\n")

	require.NoError(t, runInShell(LoginCmd(app), nil))
	assert.Contains(t, out.String(), "Username: ")
	assert.Contains(t, out.String(), "Password: ")
	assert.Equal(t, int32(1), calls.Load())
}

func TestProfileForbiddenAsksToLogInAgain(t *testing.T) {
	var calls atomic.Int32
	app, _ := testApp(t, fakeBackend(t, &calls), "")
	require.NoError(t, runInShell(LoginCmd(app), []string{"alice", "-p", "pw"}))

	err := runInShell(ProfileCmd(app), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session has expired")

	_, ok, readErr := app.Store.Read(app.Ctx)
	require.NoError(t, readErr)
	assert.False(t, ok)
}

func TestRunInShellResetsFlags(t *testing.T) {
	var seen []string
	cmd := &cobra.Command{
		Use:  "probe",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := cmd.Flags().GetString("name")
			seen = append(seen, v)
			return nil
		},
	}
	cmd.Flags().String("name", "default", "")

	require.NoError(t, runInShell(cmd, []string{"--name", "first"}))
	require.NoError(t, runInShell(cmd, nil))
	assert.Equal(t, []string{"first", "default"}, seen)

	assert.Error(t, runInShell(cmd, []string{"extra"}))
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{"plain", "register 4", []string{"register", "4"}, false},
		{"double quotes", `createEvent --title "Park tidy"`, []string{"createEvent", "--title", "Park tidy"}, false},
		{"single quotes", `createEvent --repeat 'FREQ=WEEKLY;COUNT=2'`, []string{"createEvent", "--repeat", "FREQ=WEEKLY;COUNT=2"}, false},
		{"extra spaces", "  events   ", []string{"events"}, false},
		{"unclosed", `createEvent --title "Park`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintNav(t *testing.T) {
	var buf bytes.Buffer
	printNav(&buf, services.NavLinks(session.State{}))
	assert.Contains(t, buf.String(), "Home [help] | Login [login]")
}
