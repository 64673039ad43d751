package email

// Email is a single outbound message.
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}
