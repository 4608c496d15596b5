package entity

// AccountEventType names an account lifecycle transition.
type AccountEventType string

const (
	AccountEventRegistered      AccountEventType = "user.registered"
	AccountEventLoggedIn        AccountEventType = "user.logged_in"
	AccountEventLoggedOut       AccountEventType = "user.logged_out"
	AccountEventPasswordChanged AccountEventType = "user.password_changed"
)

// String returns the string representation of the event type.
func (t AccountEventType) String() string {
	return string(t)
}
