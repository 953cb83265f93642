package mailer

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

// Invite describes a single calendar event sent as an email attachment.
type Invite struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	Duration    time.Duration
}

// Calendar renders inv as an iCalendar REQUEST.
func Calendar(inv Invite) []byte {
	now := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//CareerHub//Interview Schedule//EN")
	cal.SetName("Interview Schedule")

	ev := cal.AddEvent(inv.UID)
	ev.SetCreatedTime(now)
	ev.SetDtStampTime(now)
	ev.SetStartAt(inv.Start.UTC())
	ev.SetEndAt(inv.Start.Add(inv.Duration).UTC())
	ev.SetSummary(inv.Summary)
	ev.SetDescription(inv.Description)
	if inv.Location != "" {
		ev.SetLocation(inv.Location)
	}
	return []byte(cal.Serialize())
}

// CalendarAttachment wraps Calendar output as interview.ics.
func CalendarAttachment(inv Invite) Attachment {
	return Attachment{
		Filename:    "interview.ics",
		ContentType: "text/calendar",
		Data:        Calendar(inv),
	}
}
