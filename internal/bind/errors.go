package bind

// ErrArgument reports a binding-time validation failure: missing
// required arguments, mutually exclusive modes, or malformed values.
// The query never starts.
type ErrArgument struct {
	Reason string
}

func (e ErrArgument) Error() string {
	return "nats_scan: " + e.Reason
}
