package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/autoinstall/pkg/history"
	"github.com/matzehuels/autoinstall/pkg/install"
)

func newTestServer(t *testing.T, store history.Store) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(store, log.New(io.Discard)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func seed(t *testing.T, n int) (*history.FileStore, []string) {
	t.Helper()
	store, err := history.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < n; i++ {
		run := history.NewRun([]string{"."})
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		run.Finish(install.Report{
			Queued:  []install.Command{{Name: "npm", Args: []string{"install"}, Dir: "."}},
			Outcome: install.OutcomeSkipped,
		})
		if err := store.Save(context.Background(), run); err != nil {
			t.Fatalf("Save error: %v", err)
		}
		ids = append(ids, run.ID)
	}
	return store, ids
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, history.NewNullStore())

	var body map[string]string
	if status := getJSON(t, srv.URL+"/healthz", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestListRuns(t *testing.T) {
	store, ids := seed(t, 3)
	srv := newTestServer(t, store)

	var body struct {
		Runs []history.Run `json:"runs"`
	}
	if status := getJSON(t, srv.URL+"/runs?limit=2", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(body.Runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(body.Runs))
	}
	if body.Runs[0].ID != ids[2] || body.Runs[1].ID != ids[1] {
		t.Errorf("runs should be newest first")
	}
}

func TestListRunsEmpty(t *testing.T) {
	srv := newTestServer(t, history.NewNullStore())

	var body map[string]json.RawMessage
	if status := getJSON(t, srv.URL+"/runs", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if string(body["runs"]) != "[]" {
		t.Errorf("runs = %s, want []", body["runs"])
	}
}

func TestListRunsBadLimit(t *testing.T) {
	srv := newTestServer(t, history.NewNullStore())

	for _, q := range []string{"abc", "0", "-1", "1000"} {
		var body map[string]string
		if status := getJSON(t, srv.URL+"/runs?limit="+q, &body); status != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", q, status)
		}
		if body["code"] != "INVALID_INPUT" {
			t.Errorf("limit=%s: code = %q", q, body["code"])
		}
	}
}

func TestGetRun(t *testing.T) {
	store, ids := seed(t, 1)
	srv := newTestServer(t, store)

	var run history.Run
	if status := getJSON(t, srv.URL+"/runs/"+ids[0], &run); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if run.ID != ids[0] || run.Outcome != install.OutcomeSkipped {
		t.Errorf("run = %+v", run)
	}
	if len(run.Commands) != 1 || run.Commands[0].Command != "npm install" {
		t.Errorf("commands = %+v", run.Commands)
	}
}

func TestGetRunErrors(t *testing.T) {
	store, _ := seed(t, 0)
	srv := newTestServer(t, store)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing", "/runs/" + history.NewRun(nil).ID, http.StatusNotFound, "NOT_FOUND"},
		{"bad id", "/runs/not-a-run", http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			if status := getJSON(t, srv.URL+tt.path, &body); status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if body["code"] != tt.code {
				t.Errorf("code = %q, want %q", body["code"], tt.code)
			}
		})
	}
}

type brokenStore struct{ history.Store }

func (brokenStore) List(context.Context, int) ([]*history.Run, error) {
	return nil, stderrors.New("connection refused")
}

func TestStoreFailure(t *testing.T) {
	srv := newTestServer(t, brokenStore{history.NewNullStore()})

	var body map[string]string
	if status := getJSON(t, srv.URL+"/runs", &body); status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
	if body["code"] != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body["code"])
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(history.NewNullStore(), log.New(io.Discard)).Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
