package app

import (
	"sync/atomic"
	"testing"
	"time"

	"quizcoach/internal/domain"
)

func TestFormatClock(t *testing.T) {
	cases := map[int]string{300: "5:00", 65: "1:05", 9: "0:09", 0: "0:00", -4: "0:00", 3600: "60:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	var ticks atomic.Int32
	c := startCountdown(2*time.Millisecond, func() { ticks.Add(1) })

	deadline := time.Now().Add(time.Second)
	for ticks.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	c.stop()
	c.stop()

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatalf("countdown goroutine did not exit")
	}
	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if ticks.Load() != after {
		t.Fatalf("ticks continued after stop")
	}

	var nilCountdown *countdown
	nilCountdown.stop()
}

func TestCloseStopsTimerAndRejectsActions(t *testing.T) {
	s := NewSession(SessionConfig{
		ID:           "s1",
		UserID:       "u1",
		Category:     domain.Category{ID: "c1", Name: "C1"},
		Questions:    []domain.Question{{ID: "q1", Text: "?", Options: []string{"a", "b"}, CorrectAnswer: 0}},
		Timed:        true,
		TimeLimit:    60,
		TickInterval: 20 * time.Millisecond,
	})
	timer := s.timer
	s.Close()
	s.Close()

	select {
	case <-timer.Done():
	case <-time.After(time.Second):
		t.Fatalf("timer still running after close")
	}
	if _, err := s.SelectAnswer(0); err == nil {
		t.Fatalf("expected closed session to reject actions")
	}
	if s.Status() != domain.StatusInProgress {
		t.Fatalf("abandoning must not complete the quiz, got %s", s.Status())
	}
	if s.applyAnalysis(domain.AnalysisResult{}) {
		t.Fatalf("closed session accepted an analysis result")
	}
}

func TestSubscribeDeliversInitialViewFirst(t *testing.T) {
	questions := []domain.Question{{ID: "q1", Text: "?", Options: []string{"a", "b"}, CorrectAnswer: 0}}
	for i := 0; i < 200; i++ {
		s := NewSession(SessionConfig{ID: "s1", UserID: "u1", Category: domain.Category{ID: "c1"}, Questions: questions})

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = s.SelectAnswer(1)
			s.Close()
		}()
		ch, cancel := s.subscribe()
		<-done

		first, ok := <-ch
		if ok && first.Pending != nil && *first.Pending != 1 {
			t.Fatalf("unexpected first view: %+v", first)
		}
		for range ch {
		}
		cancel()
	}

	s := NewSession(SessionConfig{ID: "s2", UserID: "u1", Category: domain.Category{ID: "c1"}, Questions: questions})
	ch, cancel := s.subscribe()
	defer cancel()
	if _, err := s.SelectAnswer(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if first := <-ch; first.Pending != nil {
		t.Fatalf("expected the initial snapshot before updates, got pending %v", *first.Pending)
	}
	if next := <-ch; next.Pending == nil || *next.Pending != 1 {
		t.Fatalf("expected the selection update second, got %+v", next)
	}
}
