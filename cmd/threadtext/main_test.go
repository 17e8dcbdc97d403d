package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/WessleyAI/threadtext/engine/convert"
	"github.com/WessleyAI/threadtext/pkg/natsutil"
	"github.com/WessleyAI/threadtext/pkg/natsutil/natstest"
)

const threadJSON = `[
	{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"title":"Hi","author":"op","score":3,"selftext":"body"}}]}},
	{"kind":"Listing","data":{"children":[
		{"kind":"t1","data":{"body":"low","author":"a","ups":1}},
		{"kind":"t1","data":{"body":"high","author":"b","ups":9}}
	]}}
]`

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".json") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(threadJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_Stdout(t *testing.T) {
	srv := upstream(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{srv.URL + "/r/x/comments/1/hi/"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatal("expected trailing newline")
	}
	if strings.Index(out, "high") > strings.Index(out, "low") {
		t.Fatalf("comments not ranked:\n%s", out)
	}
	if !strings.Contains(stderr.String(), "found comments") {
		t.Fatalf("expected progress on stderr, got %s", stderr.String())
	}
}

func TestRun_OutputFile(t *testing.T) {
	srv := upstream(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-o", path, srv.URL + "/r/x/comments/1/hi"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty, got %q", stdout.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), strings.Repeat("=", 80)) {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
	if !strings.Contains(stderr.String(), "output saved") {
		t.Fatalf("expected save message, got %s", stderr.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{srv.URL + "/r/x/comments/1/hi"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if string(data)+"\n" != stdout.String() {
		t.Fatalf("file should hold the report without a trailing newline:\nfile %q\nstdout %q", data, stdout.String())
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr); code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(stderr.String(), "usage: threadtext") {
		t.Fatalf("expected usage text, got %s", stderr.String())
	}
	if code := run(context.Background(), []string{"-bogus", "x"}, &stdout, &stderr); code != exitUsage {
		t.Fatalf("expected exit %d for unknown flag, got %d", exitUsage, code)
	}
}

func TestRun_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{srv.URL + "/r/x/comments/1"}, &stdout, &stderr)
	if code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("no output expected on failure, got %q", stdout.String())
	}
}

func TestRun_RemoteWorker(t *testing.T) {
	_, nc := natstest.Start(t)
	const subject = "threadtext.convert.cli"

	sub, err := natsutil.Reply(nc, subject, "test",
		func(_ context.Context, req convert.Request) convert.Envelope {
			if req.URL == "https://bad.test/p" {
				return convert.Envelope{Error: "fetch failed"}
			}
			return convert.Envelope{Success: true, Output: "remote report", CommentCount: 4}
		},
		func(err error) convert.Envelope { return convert.Failed(err) },
	)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	args := []string{"-nats", nc.ConnectedUrl(), "-subject", subject, "-timeout", time.Second.String(), "https://ok.test/p"}
	if code := run(context.Background(), args, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if stdout.String() != "remote report\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}

	stdout.Reset()
	args[len(args)-1] = "https://bad.test/p"
	if code := run(context.Background(), args, &stdout, &stderr); code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(stderr.String(), "fetch failed") {
		t.Fatalf("expected remote error on stderr, got %s", stderr.String())
	}
}
