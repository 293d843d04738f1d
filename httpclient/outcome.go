package httpclient

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/kbukum/apiclient/logger"
)

// State is the terminal state of a settled call.
type State int

const (
	// StateSucceeded means the server answered 2xx.
	StateSucceeded State = iota
	// StateRejected means the call failed and the failure is reported.
	StateRejected
	// StateSilentlyResolved means the call failed but the failure was
	// suppressed; there is no payload.
	StateSilentlyResolved
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateRejected:
		return "rejected"
	case StateSilentlyResolved:
		return "silently_resolved"
	default:
		return "unknown"
	}
}

// Outcome is the settled result of one call.
type Outcome struct {
	State State
	// Payload is the unwrapped response body (StateSucceeded only).
	Payload []byte
	// Err is the failure (StateRejected only).
	Err error
	// StatusCode is the reply status, 0 when there was no reply.
	StatusCode int
}

// Result returns the payload and error the way a plain function call
// would. A silently resolved call yields (nil, nil).
func (o Outcome) Result() ([]byte, error) {
	if o.State == StateRejected {
		return nil, o.Err
	}
	return o.Payload, nil
}

// Succeeded returns a successful outcome.
func Succeeded(env *Envelope) Outcome {
	return Outcome{State: StateSucceeded, Payload: env.Data, StatusCode: env.StatusCode}
}

// Rejected returns a rejected outcome carrying err unchanged.
func Rejected(err error) Outcome {
	o := Outcome{State: StateRejected, Err: err}
	if e, ok := AsError(err); ok {
		o.StatusCode = e.StatusCode
	}
	return o
}

// SilentlyResolved returns a resolved outcome with no payload.
func SilentlyResolved(statusCode int) Outcome {
	return Outcome{State: StateSilentlyResolved, StatusCode: statusCode}
}

// ConnectivityChecker reports whether the client currently has network
// connectivity. Implementations live in package connectivity.
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

// OnlineFunc adapts a function to a ConnectivityChecker.
type OnlineFunc func(ctx context.Context) bool

// Online implements ConnectivityChecker.
func (f OnlineFunc) Online(ctx context.Context) bool { return f(ctx) }

// AlwaysOnline is the checker used when none is configured.
var AlwaysOnline = OnlineFunc(func(context.Context) bool { return true })

// StatusHook is the policy hook invoked for a classified failure status.
// It observes the failure; it cannot change how the call settles.
type StatusHook func(ctx context.Context, err *Error)

// Settler is the response stage of the pipeline: it turns the transport
// result into an Outcome.
type Settler struct {
	online         ConnectivityChecker
	hooks          map[int]StatusHook
	rejectOnStatus bool
	log            *logger.Logger
}

// NewSettler creates a Settler. A nil checker means always online.
func NewSettler(online ConnectivityChecker, rejectOnStatus bool, log *logger.Logger) *Settler {
	if online == nil {
		online = AlwaysOnline
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Settler{
		online:         online,
		hooks:          make(map[int]StatusHook),
		rejectOnStatus: rejectOnStatus,
		log:            log,
	}
}

// OnStatus registers the policy hook for one of the classified statuses
// (401, 403, 404). Hooks for other statuses are never invoked.
func (s *Settler) OnStatus(status int, hook StatusHook) {
	s.hooks[status] = hook
}

// Settle classifies the transport result.
//
//   - no error: succeeded with the envelope payload.
//   - *Error with an envelope: the status is classified and its hook run,
//     then the call is silently resolved (or rejected with RejectOnStatus).
//   - *Error without an envelope: silently resolved while offline,
//     rejected with the original error while online.
//   - any other error came from a middleware and is rejected unchanged.
func (s *Settler) Settle(ctx context.Context, env *Envelope, err error) Outcome {
	if err == nil {
		return Succeeded(env)
	}

	var herr *Error
	if !stderrors.As(err, &herr) {
		return Rejected(err)
	}

	if herr.HasEnvelope() {
		s.classify(ctx, herr)
		if s.rejectOnStatus {
			return Rejected(err)
		}
		return SilentlyResolved(herr.StatusCode)
	}

	if !s.online.Online(ctx) {
		s.log.Debug("offline, suppressing failure", logger.Fields(logger.FieldError, err.Error()))
		return SilentlyResolved(0)
	}
	return Rejected(err)
}

func (s *Settler) classify(ctx context.Context, err *Error) {
	switch err.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		s.log.Debug("failure status classified", logger.Fields(
			logger.FieldStatus, err.StatusCode,
			"class", err.Code.String(),
		))
		if hook, ok := s.hooks[err.StatusCode]; ok && hook != nil {
			hook(ctx, err)
		}
	}
}
