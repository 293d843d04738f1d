package httpclient

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
)

var offline = OnlineFunc(func(context.Context) bool { return false })

func statusError(status int) *Error {
	return ClassifyStatusCode(&Envelope{StatusCode: status, Data: []byte(`{"msg":"nope"}`)})
}

func TestSettle_Success(t *testing.T) {
	s := NewSettler(nil, false, nil)
	payload := []byte(`{"id":7}`)
	out := s.Settle(context.Background(), &Envelope{StatusCode: http.StatusOK, Data: payload}, nil)
	if out.State != StateSucceeded {
		t.Fatalf("expected succeeded, got %s", out.State)
	}
	if string(out.Payload) != string(payload) {
		t.Errorf("expected payload %s, got %s", payload, out.Payload)
	}
}

func TestSettle_ClassifiedStatusResolvesSilently(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var hooked *Error
			s := NewSettler(nil, false, nil)
			s.OnStatus(status, func(_ context.Context, err *Error) { hooked = err })

			out := s.Settle(context.Background(), nil, statusError(status))
			if out.State != StateSilentlyResolved {
				t.Fatalf("expected silently resolved, got %s", out.State)
			}
			if out.Payload != nil || out.Err != nil {
				t.Errorf("expected no payload and no error, got %q / %v", out.Payload, out.Err)
			}
			if out.StatusCode != status {
				t.Errorf("expected status %d, got %d", status, out.StatusCode)
			}
			if hooked == nil || hooked.StatusCode != status {
				t.Errorf("expected hook for %d to run", status)
			}
		})
	}
}

func TestSettle_OtherStatusSkipsHooks(t *testing.T) {
	called := false
	s := NewSettler(nil, false, nil)
	s.OnStatus(http.StatusInternalServerError, func(context.Context, *Error) { called = true })

	out := s.Settle(context.Background(), nil, statusError(http.StatusInternalServerError))
	if out.State != StateSilentlyResolved {
		t.Errorf("expected silently resolved, got %s", out.State)
	}
	if called {
		t.Error("hooks only run for 401, 403 and 404")
	}
}

func TestSettle_RejectOnStatus(t *testing.T) {
	s := NewSettler(nil, true, nil)
	err := statusError(http.StatusForbidden)
	out := s.Settle(context.Background(), nil, err)
	if out.State != StateRejected {
		t.Fatalf("expected rejected, got %s", out.State)
	}
	if out.Err != error(err) {
		t.Errorf("expected original error, got %v", out.Err)
	}
	if !IsForbidden(out.Err) {
		t.Error("expected forbidden classification")
	}
}

func TestSettle_NoEnvelopeOffline(t *testing.T) {
	s := NewSettler(offline, false, nil)
	out := s.Settle(context.Background(), nil, NewConnectionError(stderrors.New("dial tcp: refused")))
	if out.State != StateSilentlyResolved {
		t.Fatalf("expected silently resolved, got %s", out.State)
	}
	data, err := out.Result()
	if data != nil || err != nil {
		t.Errorf("expected (nil, nil), got (%q, %v)", data, err)
	}
}

func TestSettle_NoEnvelopeOnline(t *testing.T) {
	s := NewSettler(nil, false, nil)
	orig := NewTimeoutError(context.DeadlineExceeded)
	out := s.Settle(context.Background(), nil, orig)
	if out.State != StateRejected {
		t.Fatalf("expected rejected, got %s", out.State)
	}
	if out.Err != error(orig) {
		t.Errorf("expected the original error unchanged, got %v", out.Err)
	}
	if _, err := out.Result(); !IsTimeout(err) {
		t.Errorf("expected timeout error from Result, got %v", err)
	}
}

func TestSettle_MiddlewareErrorRejectedEvenOffline(t *testing.T) {
	s := NewSettler(offline, false, nil)
	storeErr := stderrors.New("store failed")
	out := s.Settle(context.Background(), nil, storeErr)
	if out.State != StateRejected || out.Err != storeErr {
		t.Errorf("expected rejection with store error, got %s / %v", out.State, out.Err)
	}
}

func TestState_String(t *testing.T) {
	if StateSilentlyResolved.String() != "silently_resolved" {
		t.Errorf("unexpected %q", StateSilentlyResolved.String())
	}
	if State(99).String() != "unknown" {
		t.Errorf("unexpected %q", State(99).String())
	}
}
