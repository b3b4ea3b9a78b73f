package codec

type Status uint8

const (
	StatusDenied Status = iota
	StatusAuthorized
)

func (s Status) String() string {
	switch s {
	case StatusAuthorized:
		return "authorized"
	default:
		return "denied"
	}
}

// Result is the outcome of a password gated read.
// A denied result never carries a message.
type Result struct {
	status  Status
	message string
}

func Authorized(message string) Result {
	return Result{status: StatusAuthorized, message: message}
}

func Denied() Result {
	return Result{status: StatusDenied}
}

func (r Result) Status() Status   { return r.status }
func (r Result) Authorized() bool { return r.status == StatusAuthorized }

func (r Result) Message() (string, bool) {
	if r.status != StatusAuthorized {
		return "", false
	}
	return r.message, true
}
