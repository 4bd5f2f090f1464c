package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

const (
	fetchEventsFailedMessage     = "Error fetching events."
	fetchEventsUnexpectedMessage = "An unexpected error occurred while fetching events."
	fetchEventFailedMessage      = "Error fetching event."
	registerFailedMessage        = "Failed to register for event."
	registerUnexpectedMessage    = "An unexpected error occurred while registering."
)

// Register button labels, in order of precedence
const (
	LabelRegistered     = "Registered"
	LabelPassed         = "Event Passed"
	LabelFull           = "Event Full"
	LabelInactive       = "Inactive"
	LabelVolunteersOnly = "Volunteers Only"
	LabelRegister       = "Register"
)

// EventsClient defines the event operations needed by the events views
type EventsClient interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	RegisterForEvent(ctx context.Context, id int64) (*model.Event, error)
}

// EventView is an event plus the flags derived for the current viewer
type EventView struct {
	Event model.Event

	Past              bool
	Full              bool
	AlreadyRegistered bool
	IsOrganizer       bool
	CanRegister       bool
	RegisterLabel     string
}

// DeriveEventView computes the per-viewer flags of an event at now.
// An event whose date cannot be parsed is not treated as past.
func DeriveEventView(e model.Event, viewer session.State, now time.Time) EventView {
	view := EventView{Event: e}

	if date, err := e.ParsedDate(); err == nil {
		view.Past = date.Before(now)
	}
	view.Full = len(e.RegisteredVolunteers) >= e.Capacity

	if viewer.LoggedIn {
		for _, v := range e.RegisteredVolunteers {
			if strconv.FormatInt(v.ID, 10) == viewer.UserID {
				view.AlreadyRegistered = true
				break
			}
		}
		if e.Organizer != nil {
			view.IsOrganizer = strconv.FormatInt(e.Organizer.ID, 10) == viewer.UserID
		}
	}

	volunteer := viewer.Can(session.CapRegisterForEvent)
	view.CanRegister = volunteer && e.Active && !view.Past && !view.Full && !view.AlreadyRegistered

	switch {
	case view.AlreadyRegistered:
		view.RegisterLabel = LabelRegistered
	case view.Past:
		view.RegisterLabel = LabelPassed
	case view.Full:
		view.RegisterLabel = LabelFull
	case !e.Active:
		view.RegisterLabel = LabelInactive
	case !volunteer:
		view.RegisterLabel = LabelVolunteersOnly
	default:
		view.RegisterLabel = LabelRegister
	}
	return view
}

// ViewState is the lifecycle of the event list
type ViewState string

const (
	ViewLoading ViewState = "loading"
	ViewError   ViewState = "error"
	ViewReady   ViewState = "ready"
)

// EventBoard is the event list page: it loads events once and keeps them in
// sync with registrations made from it
type EventBoard struct {
	client EventsClient
	store  *session.Store
	logger *zap.Logger

	// Now is the clock used for past-event checks
	Now func() time.Time

	mu     sync.Mutex
	state  ViewState
	events []model.Event
	err    error
}

func NewEventBoard(client EventsClient, store *session.Store, logger *zap.Logger) *EventBoard {
	return &EventBoard{
		client: client,
		store:  store,
		logger: logger,
		Now:    time.Now,
		state:  ViewLoading,
	}
}

// State returns the current lifecycle state and, in ViewError, the error shown
func (b *EventBoard) State() (ViewState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.err
}

// Load fetches the event list
func (b *EventBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	b.state = ViewLoading
	b.err = nil
	b.mu.Unlock()

	events, err := b.client.ListEvents(ctx)
	if err != nil {
		err = callFailure(ctx, b.store, b.logger, err, fetchEventsFailedMessage, fetchEventsUnexpectedMessage)

		b.mu.Lock()
		b.state = ViewError
		b.err = err
		b.mu.Unlock()
		return err
	}

	b.logger.Debug("Fetched events", zap.Int("count", len(events)))

	b.mu.Lock()
	b.state = ViewReady
	b.events = events
	b.mu.Unlock()
	return nil
}

// Views derives the displayed events for whoever is currently logged in
func (b *EventBoard) Views(ctx context.Context) ([]EventView, error) {
	viewer, err := currentViewer(ctx, b.store)
	if err != nil {
		return nil, err
	}
	now := b.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	views := make([]EventView, len(b.events))
	for i, e := range b.events {
		views[i] = DeriveEventView(e, viewer, now)
	}
	return views, nil
}

// Find returns the loaded event with the given id
func (b *EventBoard) Find(id int64) (model.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// Register signs the current user up for a loaded event. Ineligible
// registrations are refused without calling the backend. On success the
// returned event replaces the loaded one.
func (b *EventBoard) Register(ctx context.Context, id int64) (Notice, error) {
	event, ok := b.Find(id)
	if !ok {
		return Notice{}, &UserError{Message: fmt.Sprintf("Event %d is not in the list.", id)}
	}

	viewer, err := currentViewer(ctx, b.store)
	if err != nil {
		return Notice{}, err
	}

	view := DeriveEventView(event, viewer, b.Now())
	if !view.CanRegister {
		b.logger.Debug("Refusing ineligible registration",
			zap.Int64("eventId", id), zap.String("label", view.RegisterLabel))
		return newNotice(NoticeError, fmt.Sprintf("Cannot register: %s.", view.RegisterLabel), b.Now()),
			&UserError{Message: fmt.Sprintf("Cannot register for %s: %s.", event.Title, view.RegisterLabel)}
	}

	updated, err := b.client.RegisterForEvent(ctx, id)
	if err != nil {
		err = callFailure(ctx, b.store, b.logger, err, registerFailedMessage, registerUnexpectedMessage)
		return newNotice(NoticeError, err.Error(), b.Now()), err
	}

	b.mu.Lock()
	for i := range b.events {
		if b.events[i].ID == id {
			b.events[i] = *updated
			break
		}
	}
	b.mu.Unlock()

	b.logger.Info("Registered for event", zap.Int64("eventId", id), zap.String("title", event.Title))
	return newNotice(NoticeSuccess, fmt.Sprintf("Successfully registered for %s!", event.Title), b.Now()), nil
}

// ShowEvent fetches a single event and derives its view for the current user
func ShowEvent(ctx context.Context, client EventsClient, store *session.Store, logger *zap.Logger, id int64, now time.Time) (EventView, error) {
	event, err := client.GetEvent(ctx, id)
	if err != nil {
		return EventView{}, callFailure(ctx, store, logger, err, fetchEventFailedMessage, fetchEventsUnexpectedMessage)
	}

	viewer, err := currentViewer(ctx, store)
	if err != nil {
		return EventView{}, err
	}
	return DeriveEventView(*event, viewer, now), nil
}

func currentViewer(ctx context.Context, store *session.Store) (session.State, error) {
	sess, ok, err := store.Read(ctx)
	if err != nil {
		return session.State{}, fmt.Errorf("failed to read session: %w", err)
	}
	return session.Derive(sess, ok), nil
}
