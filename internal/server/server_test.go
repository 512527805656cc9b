package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/restorectl/internal/restore"
	"github.com/danmuck/restorectl/internal/testutil/testlog"
)

type stubDriver struct {
	res restore.Result
	err error

	gotReq restore.Request
}

func (d *stubDriver) RestoreGraph(_ context.Context, req restore.Request) (restore.Result, error) {
	d.gotReq = req
	return d.res, d.err
}

func newTestService(driver GraphDriver) *Service {
	return New(Config{Addr: ":0"}, driver, zerolog.Nop())
}

func doJSON(t *testing.T, svc *Service, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoute(t *testing.T) {
	testlog.Start(t)
	rec := doJSON(t, newTestService(&stubDriver{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"restorectl"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	testlog.Start(t)
	rec := doJSON(t, newTestService(&stubDriver{}), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestRestoreGraphRouteSuccess(t *testing.T) {
	testlog.Start(t)
	driver := &stubDriver{
		res: restore.Result{
			Phase: restore.PhaseSucceeded,
			Graph: &restore.GraphSpec{
				Format: 1,
				Restore: map[string]json.RawMessage{
					"/work/p1.csproj": json.RawMessage(`{}`),
				},
				Projects: map[string]json.RawMessage{
					"/work/p1.csproj": json.RawMessage(`{}`),
					"/work/p2.csproj": json.RawMessage(`{}`),
				},
			},
		},
	}
	svc := newTestService(driver)

	rec := doJSON(t, svc, http.MethodPost, "/restore-graph",
		`{"solution_dir":"/work","projects":["p1.csproj","p2.csproj"],"configuration":"Release"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var resp restoreGraphResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Phase != string(restore.PhaseSucceeded) || resp.Format != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Projects) != 2 || len(resp.Restore) != 1 {
		t.Fatalf("unexpected graph summary: %+v", resp)
	}
	if driver.gotReq.SolutionDir != "/work" || driver.gotReq.Configuration != "Release" {
		t.Fatalf("request not forwarded: %+v", driver.gotReq)
	}
}

func TestRestoreGraphRouteValidation(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(&stubDriver{})
	rec := doJSON(t, svc, http.MethodPost, "/restore-graph", `{"solution_dir":"/work"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty projects, got %d", rec.Code)
	}
	rec = doJSON(t, svc, http.MethodPost, "/restore-graph", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", rec.Code)
	}
}

func TestRestoreGraphRouteExitError(t *testing.T) {
	testlog.Start(t)
	driver := &stubDriver{
		res: restore.Result{Phase: restore.PhaseFailed, ExitCode: 1},
		err: &restore.ExitError{Code: 1},
	}
	rec := doJSON(t, newTestService(driver), http.MethodPost, "/restore-graph",
		`{"projects":["p1.csproj"]}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for engine failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"exit_code":1`) {
		t.Fatalf("exit code missing from body: %s", rec.Body.String())
	}
}

func TestRestoreGraphRouteCancelled(t *testing.T) {
	testlog.Start(t)
	driver := &stubDriver{
		res: restore.Result{Phase: restore.PhaseCancelled},
		err: restore.ErrCancelled,
	}
	rec := doJSON(t, newTestService(driver), http.MethodPost, "/restore-graph",
		`{"projects":["p1.csproj"]}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504 for cancelled invocation, got %d", rec.Code)
	}
}
