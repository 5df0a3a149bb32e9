package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewSessionSnapshot_DerivesTotalAttempts(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := NewSessionSnapshot(id, 2, 1, []bool{true, false, true, false}, false, at)

	if snap.TotalAttempts != 2 {
		t.Errorf("TotalAttempts = %d, want 2", snap.TotalAttempts)
	}
	if snap.SessionID != id || snap.CurrentCardIndex != 2 || snap.CorrectAnswers != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if !snap.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt = %v, want %v", snap.UpdatedAt, at)
	}
}

func TestQuizSession_Reflects(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	snap := SessionSnapshot{SessionID: id, CurrentCardIndex: 4, CorrectAnswers: 3, TotalAttempts: 5, Completed: true}

	tests := []struct {
		name    string
		session QuizSession
		want    bool
	}{
		{"same counters", QuizSession{ID: id, CorrectAnswers: 3, TotalAttempts: 5, Completed: true}, true},
		{"index differs", QuizSession{ID: id, CurrentCardIndex: 0, CorrectAnswers: 3, TotalAttempts: 5, Completed: true}, true},
		{"not completed", QuizSession{ID: id, CorrectAnswers: 3, TotalAttempts: 5}, false},
		{"stale counters", QuizSession{ID: id, CorrectAnswers: 2, TotalAttempts: 4, Completed: true}, false},
		{"other session", QuizSession{ID: uuid.New(), CorrectAnswers: 3, TotalAttempts: 5, Completed: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.session.Reflects(snap); got != tt.want {
				t.Errorf("Reflects() = %v, want %v", got, tt.want)
			}
		})
	}
}
