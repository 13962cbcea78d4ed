package view

// Signaler surfaces user-visible outcomes of an action: a blocking alert
// message and an optional navigation.
type Signaler interface {
	Alert(message string)
	Redirect(path string)
}

// Prompter asks the viewer to confirm a destructive action.
type Prompter interface {
	Confirm(message string) bool
}

// Signals records alerts and the last redirect in memory. The HTTP layer
// turns them into a flash message and a 303.
type Signals struct {
	Alerts   []string
	Location string
}

// Alert records message.
func (s *Signals) Alert(message string) {
	s.Alerts = append(s.Alerts, message)
}

// Redirect records path as the navigation target.
func (s *Signals) Redirect(path string) {
	s.Location = path
}

// Last returns the most recent alert, or "".
func (s *Signals) Last() string {
	if len(s.Alerts) == 0 {
		return ""
	}
	return s.Alerts[len(s.Alerts)-1]
}

// Confirmation is a Prompter answered ahead of time by a form field. When
// the answer is no it remembers the question so the page can ask it.
type Confirmation struct {
	Confirmed bool
	Pending   string
}

// Confirm returns the preset answer and records the question when unanswered.
func (c *Confirmation) Confirm(message string) bool {
	if !c.Confirmed {
		c.Pending = message
	}
	return c.Confirmed
}
