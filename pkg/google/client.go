package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/tasktrack/pkg/auth"
	"github.com/harrisonrobin/tasktrack/pkg/index"
)

// NewClient authenticates and resolves calendarName to a calendar id.
func NewClient(ctx context.Context, calendarName string, idx *index.EventIndex) (*CalendarClient, error) {
	client, err := auth.GetClient(ctx, auth.CalendarScopes)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}
	return NewServiceClient(srv, calendarName, idx)
}

// NewServiceClient resolves calendarName using an existing service.
func NewServiceClient(srv *calendar.Service, calendarName string, idx *index.EventIndex) (*CalendarClient, error) {
	calendarList, err := srv.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return NewCalendarClient(srv, item.Id, idx), nil
		}
	}
	return nil, fmt.Errorf("calendar '%s' not found", calendarName)
}
