package telegram

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// scriptedTransport fails the first len(errs) calls with errs in order.
type scriptedTransport struct {
	errs  []error
	calls int
}

func (s *scriptedTransport) RoundTrip(*http.Request) (*http.Response, error) {
	s.calls++
	if s.calls <= len(s.errs) {
		return nil, s.errs[s.calls-1]
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

func apiRequest(t *testing.T, method string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://api.telegram.org/bot123:abc/"+method, strings.NewReader(`{"chat_id":1}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return req
}

func TestRetryTransportByMethod(t *testing.T) {
	timeout := &url.Error{Op: "Post", Err: timeoutErr{}}
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route")}

	cases := []struct {
		name      string
		method    string
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"send timeout is not repeated", "sendMessage", timeout, 1, true},
		{"edit timeout is not repeated", "editMessageText", timeout, 1, true},
		{"send dial failure is retried", "sendMessage", dial, 2, false},
		{"getUpdates timeout is retried", "getUpdates", timeout, 2, false},
		{"getChatMember timeout is retried", "getChatMember", timeout, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := &scriptedTransport{errs: []error{tc.err}}
			rt := &retryTransport{base: base, maxRetries: 3}

			resp, err := rt.RoundTrip(apiRequest(t, tc.method))
			if resp != nil {
				_ = resp.Body.Close()
			}
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if base.calls != tc.wantCalls {
				t.Fatalf("calls = %d, want %d", base.calls, tc.wantCalls)
			}
		})
	}
}

func TestRetryTransportGivesUp(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route")}
	base := &scriptedTransport{errs: []error{dial, dial, dial, dial, dial}}
	rt := &retryTransport{base: base, maxRetries: 2}

	if _, err := rt.RoundTrip(apiRequest(t, "sendMessage")); !errors.Is(err, dial) {
		t.Fatalf("err = %v, want dial error", err)
	}
	if base.calls != 3 {
		t.Fatalf("calls = %d, want 3", base.calls)
	}
}
