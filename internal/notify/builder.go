package notify

import (
	"fmt"
	"net/url"
	"strings"

	"backend-teamugly/internal/contacts"
	"backend-teamugly/internal/ride"
)

const gmailCompose = "https://mail.google.com/mail/?"

// Compose renders the announcement subject and plain-text body.
func Compose(r ride.Ride, links Links) (string, string) {
	team := links.TeamName
	subject := fmt.Sprintf("%s Training Ride: %s on %s", team, r.Name, r.Date)

	var b strings.Builder
	fmt.Fprintf(&b, "Hey %s!\n\n", team)
	b.WriteString("A training ride has been posted:\n\n")
	fmt.Fprintf(&b, "  Ride:          %s\n", r.Name)
	fmt.Fprintf(&b, "  Date:          %s\n", r.Date)
	fmt.Fprintf(&b, "  Time:          %s\n", r.StartTime)
	fmt.Fprintf(&b, "  Meeting Point: %s\n", r.MeetingPoint)
	fmt.Fprintf(&b, "  GPS Route:     %s\n\n", r.RouteLink)
	fmt.Fprintf(&b, "Sign up for the ride at:\n%s\n\n", links.SignupLink)
	fmt.Fprintf(&b, "Not yet on %s for Bike MS? Join us here:\n%s\n\n", team, links.JoinLink)
	fmt.Fprintf(&b, "See you out there!\n— %s", team)
	return subject, b.String()
}

// Build assembles the compose links for a list of contacts. It does not
// send anything; the admin's mail client does.
func Build(r ride.Ride, list []contacts.Contact, links Links) Notification {
	emails := contacts.Emails(list)
	if len(emails) == 0 {
		return Notification{Status: StatusNoRecipients, Message: "The contact list has no email addresses."}
	}

	subject, body := Compose(r, links)
	return Notification{
		Status:     StatusReady,
		Subject:    subject,
		Body:       body,
		GmailURL:   GmailURL(emails, subject, body),
		MailtoURL:  MailtoURL(emails, subject, body),
		Recipients: strings.Join(emails, ", "),
		Count:      len(emails),
	}
}

// GmailURL keeps the view, to, su, body parameter order Gmail documents.
func GmailURL(emails []string, subject, body string) string {
	return gmailCompose +
		"view=cm" +
		"&to=" + url.QueryEscape(strings.Join(emails, ",")) +
		"&su=" + url.QueryEscape(subject) +
		"&body=" + url.QueryEscape(body)
}

// MailtoURL puts every recipient in bcc.
func MailtoURL(emails []string, subject, body string) string {
	return "mailto:?bcc=" + escape(strings.Join(emails, ",")) +
		"&subject=" + escape(subject) +
		"&body=" + escape(body)
}

// escape percent-encodes for mailto, where + is not a space.
func escape(s string) string {
	s = strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return strings.ReplaceAll(s, "%2F", "/")
}
