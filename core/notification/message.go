package notification

import (
	"fmt"
	"time"

	"github.com/NCNU-OpenSource/meow-server/core/catalog"
)

// Tags used to group outbound messages.
const (
	TagIncident = "incident"
	TagReminder = "reminder"
)

// IncidentMessage composes the first notification sent when a challenge starts.
func IncidentMessage(tpl catalog.Template, startedAt time.Time, loginHint string) Message {
	body := fmt.Sprintf(`A new Linux fault has been injected!

Template ID: %s
Description: %s
Started at:  %s

Log in to the practice machine and start debugging:
    %s

The web UI shows the full description and progressive hints.
`,
		tpl.ID,
		tpl.Description,
		startedAt.Format("2006-01-02 15:04:05"),
		loginHint,
	)

	return Message{
		Subject: "Meow Server: a new fault challenge has arrived",
		Body:    body,
		Tag:     TagIncident,
	}
}

// ReminderMessage composes the periodic notification sent while a challenge
// stays unresolved. The template id and description are passed separately so a
// reminder can still go out when the template vanished from the catalog.
func ReminderMessage(templateID, description string, elapsed time.Duration, loginHint string) Message {
	if templateID == "" {
		templateID = "(unknown)"
	}
	if description == "" {
		description = "(template description unavailable)"
	}

	body := fmt.Sprintf(`The fault is still waiting for you!

Template ID: %s
Description: %s
Elapsed:     %d seconds

Jump back in:
    %s
`,
		templateID,
		description,
		int(elapsed.Seconds()),
		loginHint,
	)

	return Message{
		Subject: "Meow Server reminder: the fault is not fixed yet",
		Body:    body,
		Tag:     TagReminder,
	}
}
