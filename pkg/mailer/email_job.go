package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is always set.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// Valid reports whether the job carries enough to be delivered.
func (j EmailJob) Valid() bool {
	return j.To != "" && j.Subject != "" && j.Text != ""
}
