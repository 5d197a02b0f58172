package notify

const (
	StatusReady        = "ready"
	StatusNoContacts   = "no_contacts"
	StatusNoRecipients = "no_recipients"
)

// Links are the team-wide texts every announcement carries.
type Links struct {
	TeamName   string
	SignupLink string
	JoinLink   string
}

type Notification struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body,omitempty"`
	GmailURL   string `json:"gmail_url,omitempty"`
	MailtoURL  string `json:"mailto_url,omitempty"`
	Recipients string `json:"recipients,omitempty"`
	Count      int    `json:"count"`
}
