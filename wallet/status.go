package wallet

import "fmt"

// Status is the lifecycle state of an adapter instance. It is the single
// source of truth for admission control: every guard checks it, and it only
// changes through the transition table below.
type Status string

const (
	StatusNotReady     Status = "not_ready"
	StatusReady        Status = "ready"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusErrored      Status = "errored"
)

// statusTransitions is the closed set of legal lifecycle transitions. Guards
// consult this table; there is no other way to change status.
var statusTransitions = map[Status][]Status{
	StatusNotReady:     {StatusReady, StatusErrored},
	StatusReady:        {StatusConnecting, StatusErrored},
	StatusConnecting:   {StatusConnected, StatusReady, StatusErrored},
	StatusConnected:    {StatusDisconnected, StatusErrored},
	StatusDisconnected: {StatusConnecting, StatusReady, StatusErrored},
	StatusErrored:      {StatusReady, StatusConnecting},
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func (s Status) String() string {
	return string(s)
}

// errIllegalTransition builds the failure returned when a status write is
// attempted outside the transition table.
func errIllegalTransition(from, to Status) error {
	return fmt.Errorf("illegal status transition %s -> %s", from, to)
}
