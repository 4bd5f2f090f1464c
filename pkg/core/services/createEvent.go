package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// MaxOccurrences bounds how many events one recurring submission may create
	MaxOccurrences = 52

	createPermissionMessage = "You do not have permission to create events. Only ORGANIZERS can."
	createFailedMessage     = "Error creating event. Check your inputs."
	createUnexpectedMessage = "An unexpected error occurred. Please try again."
)

// EventCreator defines the operation needed to create events
type EventCreator interface {
	CreateEvent(ctx context.Context, req apiclient.EventCreateRequest) (*model.Event, error)
}

// EventForm is the create-event form. Date and Time are kept as typed so that
// validation can report them separately.
type EventForm struct {
	Title          string `form:"title" validate:"required"`
	Description    string `form:"description" validate:"required"`
	Location       string `form:"location" validate:"required"`
	Date           string `form:"date" validate:"required,datetime=2006-01-02"`
	Time           string `form:"time" validate:"required,datetime=15:04"`
	Capacity       int    `form:"capacity" validate:"gt=0"`
	RequiredSkills string `form:"requiredSkills"`
	OrganizationID *int64 `form:"organizationId"`
	Active         bool   `form:"active"`
	// Repeat is an optional RRULE; it must carry COUNT or UNTIL
	Repeat string `form:"repeat"`
}

// NewEventForm returns an empty form. New events are active unless unchecked.
func NewEventForm() EventForm {
	return EventForm{Active: true}
}

// EventDate composes the backend timestamp from the date and time fields
func (f EventForm) EventDate() string {
	return f.Date + "T" + f.Time + ":00"
}

func (f EventForm) start() (time.Time, error) {
	return time.ParseInLocation(dateLayout+"T"+timeLayout, f.Date+"T"+f.Time, time.Local)
}

func (f EventForm) request(eventDate string) apiclient.EventCreateRequest {
	return apiclient.EventCreateRequest{
		Title:          strings.TrimSpace(f.Title),
		Description:    strings.TrimSpace(f.Description),
		EventDate:      eventDate,
		Location:       strings.TrimSpace(f.Location),
		Capacity:       f.Capacity,
		RequiredSkills: strings.TrimSpace(f.RequiredSkills),
		OrganizationID: f.OrganizationID,
		Active:         f.Active,
	}
}

// Occurrences lists the eventDate of every event the form will create: one
// for a plain form, one per recurrence otherwise
func (f EventForm) Occurrences() ([]string, error) {
	if strings.TrimSpace(f.Repeat) == "" {
		return []string{f.EventDate()}, nil
	}

	start, err := f.start()
	if err != nil {
		return nil, fmt.Errorf("failed to parse event start: %w", err)
	}

	opt, err := rrule.StrToROption(strings.TrimPrefix(strings.TrimSpace(f.Repeat), "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse repeat rule: %w", err)
	}
	if opt.Count == 0 && opt.Until.IsZero() {
		return nil, fmt.Errorf("repeat rule must set COUNT or UNTIL")
	}
	if opt.Count > MaxOccurrences {
		return nil, fmt.Errorf("repeat rule creates more than %d events", MaxOccurrences)
	}
	opt.Dtstart = start

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build repeat rule: %w", err)
	}

	var dates []string
	iter := rule.Iterator()
	for {
		t, ok := iter()
		if !ok {
			break
		}
		if len(dates) == MaxOccurrences {
			return nil, fmt.Errorf("repeat rule creates more than %d events", MaxOccurrences)
		}
		dates = append(dates, t.Format(model.EventDateLayout))
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("repeat rule produces no events")
	}
	return dates, nil
}

// CreateEventResult lists the events the backend created
type CreateEventResult struct {
	Events []model.Event
	Notice Notice
}

// CreateEvent submits the form, once per occurrence. Submissions are never
// de-duplicated: submitting the same form twice creates two events. The
// form is reset after every occurrence was created.
func CreateEvent(
	ctx context.Context,
	client EventCreator,
	store *session.Store,
	logger *zap.Logger,
	form *EventForm,
	now time.Time,
) (*CreateEventResult, error) {
	logger.Debug("Starting createEvent", zap.String("title", form.Title), zap.String("repeat", form.Repeat))

	viewer, err := currentViewer(ctx, store)
	if err != nil {
		return nil, err
	}
	if !viewer.LoggedIn {
		return nil, session.ErrNotAuthenticated
	}
	if !viewer.Can(session.CapCreateEvent) {
		return nil, &UserError{Message: createPermissionMessage}
	}

	if err := validateForm(*form, createFailedMessage); err != nil {
		return nil, err
	}

	dates, err := form.Occurrences()
	if err != nil {
		return nil, &ValidationError{
			Summary: createFailedMessage,
			Fields:  []FieldError{{Field: "repeat", Message: err.Error()}},
		}
	}

	created := make([]model.Event, 0, len(dates))
	for _, date := range dates {
		event, err := client.CreateEvent(ctx, form.request(date))
		if err != nil {
			err = callFailure(ctx, store, logger, err, createFailedMessage, createUnexpectedMessage)
			if len(created) > 0 {
				logger.Warn("Recurring creation stopped part way",
					zap.Int("created", len(created)), zap.Int("total", len(dates)), zap.Error(err))
				err = fmt.Errorf("created %d of %d events: %w", len(created), len(dates), err)
			}
			return &CreateEventResult{Events: created}, err
		}
		logger.Debug("Created event", zap.Int64("id", event.ID), zap.String("eventDate", date))
		created = append(created, *event)
	}

	text := "Event created successfully!"
	if len(created) > 1 {
		text = fmt.Sprintf("%d events created successfully!", len(created))
	}

	logger.Info("Created events", zap.Int("count", len(created)), zap.String("title", form.Title))
	*form = NewEventForm()

	return &CreateEventResult{
		Events: created,
		Notice: newNotice(NoticeSuccess, text, now),
	}, nil
}
