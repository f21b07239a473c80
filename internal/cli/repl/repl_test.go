package repl

import (
	"bufio"
	"bytes"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/lorikv/lorikv-go/internal/cli/connection"
)

// pongServer answers every request with +PONG.
func pongServer(t *testing.T) net.Addr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		br := bufio.NewReader(conn)
		for {
			header, err := br.ReadString('\n')
			if err != nil {
				return
			}
			n := 0
			for _, c := range strings.TrimSpace(header[1:]) {
				n = n*10 + int(c-'0')
			}
			for i := 0; i < 2*n; i++ {
				if _, err := br.ReadString('\n'); err != nil {
					return
				}
			}
			if _, err := conn.Write([]byte("+PONG\r\n")); err != nil {
				return
			}
		}
	}()

	return ln.Addr()
}

func TestRunExecutesCommands(t *testing.T) {
	addr := pongServer(t)
	client, err := connection.Dial(addr.String(), 2*time.Second)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer client.Close()

	var out bytes.Buffer
	r := New(client)
	r.input = strings.NewReader("ping\nexit\n")
	r.output = &out
	r.history.file = t.TempDir() + "/history"

	if err := r.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.Contains(out.String(), "PONG") {
		t.Errorf("output missing PONG: %q", out.String())
	}
}

func TestRunQuitAndEOF(t *testing.T) {
	for _, input := range []string{"quit\n", "exit\n", ""} {
		var out bytes.Buffer
		r := New(nil)
		r.input = strings.NewReader(input)
		r.output = &out
		r.history.file = t.TempDir() + "/history"

		if err := r.Run(); err != nil {
			t.Errorf("Run(%q) error: %v", input, err)
		}
	}
}

func TestRunSkipsBlankLines(t *testing.T) {
	var out bytes.Buffer
	r := New(nil)
	r.input = strings.NewReader("\n   \nexit\n")
	r.output = &out
	r.history.file = t.TempDir() + "/history"

	if err := r.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	// Blank lines should not be recorded.
	if got := r.history.Get(0); got != "exit" {
		t.Errorf("history head = %q, want exit", got)
	}
}

// ============================================================
// Completer
// ============================================================

func TestCompleterComplete(t *testing.T) {
	c := NewCompleter()

	got := c.Complete("z")
	want := []string{"zadd", "zrange", "zrem"}
	if len(got) != len(want) {
		t.Fatalf("Complete(z) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Complete(z)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := c.Complete("nomatch"); got != nil {
		t.Errorf("Complete(nomatch) = %v, want nil", got)
	}
}

// ============================================================
// History
// ============================================================

func TestHistoryAddGet(t *testing.T) {
	h := NewHistory()
	h.Add("first")
	h.Add("second")

	if got := h.Get(0); got != "second" {
		t.Errorf("Get(0) = %q, want second", got)
	}
	if got := h.Get(1); got != "first" {
		t.Errorf("Get(1) = %q, want first", got)
	}
	if got := h.Get(2); got != "" {
		t.Errorf("Get(2) = %q, want empty", got)
	}
}

func TestHistorySkipsBlanksAndRepeats(t *testing.T) {
	h := NewHistory()
	h.Add("get k")
	h.Add("get k")
	h.Add("  ")
	h.Add("set k v")

	if len(h.entries) != 2 {
		t.Fatalf("entries = %v, want [get k, set k v]", h.entries)
	}
	if got := h.Get(1); got != "get k" {
		t.Errorf("Get(1) = %q, want %q", got, "get k")
	}
}

func TestHistoryMaxSize(t *testing.T) {
	h := NewHistory()
	h.maxSize = 3
	for _, cmd := range []string{"a", "b", "c", "d"} {
		h.Add(cmd)
	}

	if len(h.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(h.entries))
	}
	// Oldest entry dropped.
	if got := h.Get(2); got != "b" {
		t.Errorf("oldest = %q, want b", got)
	}
}

func TestHistorySaveLoad(t *testing.T) {
	file := t.TempDir() + "/history"

	h := NewHistory()
	h.file = file
	h.Add("set k v")
	h.Add("get k")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	h2 := NewHistory()
	h2.file = file
	if err := h2.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := h2.Get(0); got != "get k" {
		t.Errorf("loaded head = %q, want %q", got, "get k")
	}
}

func TestHistoryLoadMissingFile(t *testing.T) {
	h := NewHistory()
	h.file = t.TempDir() + "/nonexistent"
	if err := h.Load(); err != nil {
		t.Errorf("Load() of missing file should not error, got %v", err)
	}
}
