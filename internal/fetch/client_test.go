package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type ipv4Server struct {
	URL string
	srv *http.Server
	ln  net.Listener
}

func newIPv4Server(t *testing.T, handler http.Handler) *ipv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	s := &ipv4Server{URL: "http://" + ln.Addr().String(), srv: srv, ln: ln}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	return s
}

func (s *ipv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func testClient() *Client {
	return NewClient(5*time.Second, 3, 5*time.Millisecond, 20*time.Millisecond)
}

func TestGetRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("dept,salary\nSales,1\n"))
	}))
	defer srv.Close()

	res, err := testClient().Get(context.Background(), srv.URL+"/tables/salaries.csv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
	if res.Name != "salaries.csv" || string(res.Body) != "dept,salary\nSales,1\n" {
		t.Fatalf("result = %+v", res)
	}
}

func TestGetClassifiesErrors(t *testing.T) {
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/private":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	_, err := testClient().Get(context.Background(), srv.URL+"/missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.StatusCode != 404 {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("404 should not retry, calls = %d", got)
	}

	_, err = testClient().Get(context.Background(), srv.URL+"/private")
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want AuthError", err)
	}

	atomic.StoreInt32(&calls, 0)
	_, err = testClient().Get(context.Background(), srv.URL+"/flaky")
	var se *ServerError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want ServerError", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("5xx should retry to the limit, calls = %d", got)
	}
}

func TestGetRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testClient().Get(ctx, "http://127.0.0.1:1/x.csv"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNameHint(t *testing.T) {
	cases := []struct {
		url, ct, cd, want string
	}{
		{"http://h/tables/sales.csv", "", "", "sales.csv"},
		{"http://h/api/query/7", "application/json; charset=utf-8", "", "7.json"},
		{"http://h/", "text/csv", "", "download.csv"},
		{"http://h/export", "", `attachment; filename="report.xlsx"`, "report.xlsx"},
	}
	for _, tc := range cases {
		if got := nameHint(tc.url, tc.ct, tc.cd); got != tc.want {
			t.Fatalf("nameHint(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	if s, err := parseRetryAfterSeconds("3"); err != nil || s != 3 {
		t.Fatalf("got %d, %v", s, err)
	}
	if _, err := parseRetryAfterSeconds("soon"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("HTTPS://example.com/a.csv") || IsURL("./a.csv") {
		t.Fatalf("IsURL mismatch")
	}
}
