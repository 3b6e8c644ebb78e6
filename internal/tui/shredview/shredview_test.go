package shredview

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"thermite/internal/logging"
	"thermite/internal/shred"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

func newTestModel(t *testing.T, cancel context.CancelFunc) Model {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	m := New("/tmp/secret.txt", cancel, logger)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	return model.(Model)
}

func TestModel_TracksEvents(t *testing.T) {
	m := newTestModel(t, nil)

	m = send(t, m,
		EventMsg{shred.Event{Kind: shred.EventStarted, Size: 4096, Workers: 4, Chunks: 8, Passes: 3, Total: 15}},
		EventMsg{shred.Event{Kind: shred.EventPassStarted, Pass: 2, Passes: 3}},
		EventMsg{shred.Event{Kind: shred.EventPatternApplied, Pass: 2, Pattern: "0x55", Applied: 8, Total: 15}},
	)

	if m.pass != 2 || m.applied != 8 || m.total != 15 {
		t.Errorf("Unexpected state: pass=%d applied=%d total=%d", m.pass, m.applied, m.total)
	}

	view := m.View()
	for _, want := range []string{"Thermite", "/tmp/secret.txt", "4.0 KiB", "Pass 2/3", "0x55", "8/15 patterns applied", "abort"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
}

func TestModel_Warning(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, EventMsg{shred.Event{Kind: shred.EventWarning, Err: errors.New("chmod denied")}})

	if !strings.Contains(m.View(), "Could not remove all metadata: chmod denied") {
		t.Error("Expected metadata warning in view")
	}
}

func TestModel_AbortCancels(t *testing.T) {
	cancelled := 0
	m := newTestModel(t, func() { cancelled++ })

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	if cancelled != 1 {
		t.Errorf("Expected cancel once, got %d", cancelled)
	}
	if !m.aborting {
		t.Error("Expected aborting state")
	}
	if !strings.Contains(m.View(), "Aborting") {
		t.Error("Expected aborting status in view")
	}
	if m.Done() {
		t.Error("Abort must wait for the engine to stop")
	}
}

func TestModel_DoneQuits(t *testing.T) {
	m := newTestModel(t, nil)

	updated, cmd := m.Update(DoneMsg{Result: &shred.Result{FinalName: "abc"}})
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	res, err := m.Result()
	if err != nil || res == nil || res.FinalName != "abc" {
		t.Errorf("Unexpected result %+v, %v", res, err)
	}
	if !strings.Contains(m.View(), "completed successfully") {
		t.Error("Expected success message")
	}
}

func TestModel_DoneWithError(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, DoneMsg{Err: errors.New("overwrite failed")})

	view := m.View()
	if !strings.Contains(view, "Secure deletion failed") || !strings.Contains(view, "overwrite failed") {
		t.Errorf("Expected failure in view:\n%s", view)
	}
}

func TestModel_Teatest(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	tm := teatest.NewTestModel(t, New("/tmp/secret.txt", nil, logger), teatest.WithInitialTermSize(100, 30))

	tm.Send(EventMsg{shred.Event{Kind: shred.EventStarted, Size: 1024, Workers: 1, Chunks: 1, Passes: 1, Total: 5}})
	tm.Send(EventMsg{shred.Event{Kind: shred.EventPassStarted, Pass: 1, Passes: 1}})
	waitForString(t, tm, "Pass 1/1")

	for i, name := range []string{"zeros", "ones", "0x55", "0xAA", shred.RandomPatternName} {
		tm.Send(EventMsg{shred.Event{Kind: shred.EventPatternApplied, Pass: 1, Pattern: name, PatternIndex: i + 1, Applied: i + 1, Total: 5}})
	}
	waitForString(t, tm, "5/5 patterns applied")

	tm.Send(DoneMsg{Result: &shred.Result{}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	if !ok || !final.Done() {
		t.Fatal("Expected finished model")
	}
}

func TestRun_DestroysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.bin")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 300), 0o600); err != nil {
		t.Fatal(err)
	}

	opts := shred.DefaultOptions()
	opts.Passes = 1
	opts.BufferSize = 64
	opts.ProtectSystemPaths = false

	logger, _ := logging.NewTestLogger()
	var out bytes.Buffer
	res, err := Run(context.Background(), path, opts, logger, tea.WithInput(nil), tea.WithOutput(&out))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res == nil || len(res.FinalName) != 32 {
		t.Errorf("Unexpected result %+v", res)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be removed")
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	_, err := Run(context.Background(), "irrelevant", shred.Options{Passes: 0}, logger, tea.WithInput(nil), tea.WithOutput(&bytes.Buffer{}))
	if !errors.Is(err, shred.ErrInvalidInput) {
		t.Errorf("Expected invalid input, got %v", err)
	}
}

func waitForString(t *testing.T, tm *teatest.TestModel, s string) {
	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			return strings.Contains(string(b), s)
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*3),
	)
}
