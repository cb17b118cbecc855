package domain

// Notification is an outbound message request. Recipients are resolved from
// ContactID first, then Category, and otherwise every contact.
type Notification struct {
	Subject   string
	Body      string
	Category  string
	ContactID string
}

// Delivery is one resolved recipient of a Notification.
type Delivery struct {
	Contact Contact
	Subject string
	Body    string
}
