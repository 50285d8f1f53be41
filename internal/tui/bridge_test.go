package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/orchestration"
)

// recordingSender collects every message sent through a programRef.
type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *recordingSender) messages() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tea.Msg(nil), r.msgs...)
}

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{}
	// Should not panic
	ref.Send(SizeStartMsg{Size: 1})
}

func TestProgramRef_ConcurrentSend(t *testing.T) {
	rec := &recordingSender{}
	ref := &programRef{}
	ref.SetProgram(rec)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Send(SizeStartMsg{Size: i})
		}()
	}
	wg.Wait()

	if got := len(rec.messages()); got != 8 {
		t.Errorf("got %d messages, want 8", got)
	}
}

func TestTUIObserver_ForwardsEventsWithGeneration(t *testing.T) {
	rec := &recordingSender{}
	ref := &programRef{}
	ref.SetProgram(rec)
	obs := &TUIObserver{ref: ref, generation: 4}

	obs.OnSizeStart(100, 0, 2)
	obs.OnRunComplete(orchestration.RunResult{Strategy: "Sequential", Size: 100, Sum: 5050, Match: true})
	obs.OnSizeDone(orchestration.SizeReport{Size: 100, Expected: 5050})

	msgs := rec.messages()
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	start, ok := msgs[0].(SizeStartMsg)
	if !ok || start.Size != 100 || start.Total != 2 || start.Generation != 4 {
		t.Errorf("unexpected start message %#v", msgs[0])
	}
	run, ok := msgs[1].(RunCompleteMsg)
	if !ok || run.Result.Sum != 5050 || run.Generation != 4 {
		t.Errorf("unexpected run message %#v", msgs[1])
	}
	done, ok := msgs[2].(SizeDoneMsg)
	if !ok || done.Report.Expected != 5050 || done.Generation != 4 {
		t.Errorf("unexpected done message %#v", msgs[2])
	}
}

func TestTUIResultPresenter_HandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSender{}
			ref := &programRef{}
			ref.SetProgram(rec)
			presenter := &TUIResultPresenter{ref: ref, generation: 2}

			if got := presenter.HandleError(tt.err, nil); got != tt.want {
				t.Errorf("HandleError() = %d, want %d", got, tt.want)
			}
			msgs := rec.messages()
			if len(msgs) != 1 {
				t.Fatalf("got %d messages, want 1", len(msgs))
			}
			if msg, ok := msgs[0].(ErrorMsg); !ok || !errors.Is(msg.Err, tt.err) || msg.Generation != 2 {
				t.Errorf("unexpected message %#v", msgs[0])
			}
		})
	}
}
