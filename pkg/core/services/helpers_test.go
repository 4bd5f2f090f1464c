package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// testStore returns a memory-backed store and a subscription that records
// every change signal it emits
func testStore(t *testing.T) (*session.Store, <-chan session.Signal) {
	t.Helper()
	broker := session.NewLocalBroker()
	signals, cancel, err := broker.Subscribe(context.Background())
	require.NoError(t, err)
	t.Cleanup(cancel)
	return session.NewStore(session.NewMemoryKV(), broker, zap.NewNop()), signals
}

func loggedInStore(t *testing.T, userID string, roles ...model.Role) (*session.Store, <-chan session.Signal) {
	t.Helper()
	store, signals := testStore(t)
	require.NoError(t, store.Write(context.Background(), session.Session{
		Token:    "t1",
		UserID:   userID,
		Username: "alice",
		Roles:    roles,
	}))
	return store, signals
}

// drain returns the signals already delivered
func drain(ch <-chan session.Signal) []session.Signal {
	var out []session.Signal
	for {
		select {
		case sig := <-ch:
			out = append(out, sig)
		default:
			return out
		}
	}
}

func apiErr(status int, message string) error {
	return &apiclient.APIError{StatusCode: status, Message: message}
}

var errForbidden = apiErr(http.StatusForbidden, "")

// mockAuthClient implements AuthClient
type mockAuthClient struct {
	loginResp   *apiclient.LoginResponse
	loginErr    error
	loginCalls  []apiclient.LoginRequest
	registerMsg string
	registerErr error
	registered  []apiclient.RegisterRequest
}

func (m *mockAuthClient) Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.LoginResponse, error) {
	m.loginCalls = append(m.loginCalls, req)
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResp, nil
}

func (m *mockAuthClient) Register(ctx context.Context, req apiclient.RegisterRequest) (string, error) {
	m.registered = append(m.registered, req)
	if m.registerErr != nil {
		return "", m.registerErr
	}
	return m.registerMsg, nil
}

// mockEventsClient implements EventsClient and EventCreator
type mockEventsClient struct {
	events        []model.Event
	listErr       error
	registerResp  *model.Event
	registerErr   error
	registerCalls []int64
	createErr     error
	createErrAt   int
	created       []apiclient.EventCreateRequest
}

func (m *mockEventsClient) ListEvents(ctx context.Context) ([]model.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.events, nil
}

func (m *mockEventsClient) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, apiErr(http.StatusNotFound, "Event not found")
}

func (m *mockEventsClient) RegisterForEvent(ctx context.Context, id int64) (*model.Event, error) {
	m.registerCalls = append(m.registerCalls, id)
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return m.registerResp, nil
}

func (m *mockEventsClient) CreateEvent(ctx context.Context, req apiclient.EventCreateRequest) (*model.Event, error) {
	m.created = append(m.created, req)
	if m.createErr != nil && len(m.created) > m.createErrAt {
		return nil, m.createErr
	}
	return &model.Event{
		ID:        int64(len(m.created)),
		Title:     req.Title,
		EventDate: req.EventDate,
		Capacity:  req.Capacity,
		Active:    req.Active,
	}, nil
}
