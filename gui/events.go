package gui

// events

// a choice list fetch finished; stage and seq name the fetch it answers
type choicesFetchedEvent struct {
	stage   int
	seq     int
	results []interface{}
	err     error
}

// the player failed
type ErrorEvent struct {
	err error
}

func newErrorEvent(err error) ErrorEvent {
	return ErrorEvent{err: err}
}

// the player exited
type PlayedEvent struct {
	title string
}
