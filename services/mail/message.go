package mail

// Message is a single outbound HTML email. From and ReplyTo are optional; an
// empty From uses the configured sender.
type Message struct {
	To      string
	Subject string
	HTML    string
	From    string
	ReplyTo string
}
