package meetings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleMeetProvider creates Google Meet links by inserting calendar
// events with a conference request attached.
type GoogleMeetProvider struct {
	service    *calendar.Service
	calendarID string
	logger     *slog.Logger
}

// NewGoogleMeetProvider builds a provider from a service account
// credentials file.
func NewGoogleMeetProvider(ctx context.Context, credentialsFile string, logger *slog.Logger) (*GoogleMeetProvider, error) {
	service, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &GoogleMeetProvider{
		service:    service,
		calendarID: "primary",
		logger:     logger,
	}, nil
}

func (p *GoogleMeetProvider) CreateMeeting(ctx context.Context, details MeetingDetails) (string, error) {
	attendees := make([]*calendar.EventAttendee, 0, len(details.Attendees))
	for _, email := range details.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	event := &calendar.Event{
		Summary:     details.Summary,
		Description: details.Description,
		Start: &calendar.EventDateTime{
			DateTime: details.StartAt.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: details.EndAt.Format(time.RFC3339),
		},
		Attendees: attendees,
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
				RequestId:             fmt.Sprintf("meet-%d", time.Now().UnixNano()),
			},
		},
	}

	created, err := p.service.Events.Insert(p.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}

	if created.HangoutLink == "" {
		p.logger.Warn("calendar event created without a meet link", "event_id", created.Id)
	}

	return created.HangoutLink, nil
}
