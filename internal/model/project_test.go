package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadlineStateAt(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     DeadlineState
	}{
		{name: "deadline passed", deadline: now.Add(-time.Hour), want: DeadlineOverdue},
		{name: "due tomorrow", deadline: now.Add(24 * time.Hour), want: DeadlineDueSoon},
		{name: "due in exactly seven days", deadline: now.Add(7 * 24 * time.Hour), want: DeadlineDueSoon},
		{name: "due beyond the window", deadline: now.Add(8 * 24 * time.Hour), want: DeadlineOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project{Deadline: tt.deadline}
			assert.Equal(t, tt.want, p.DeadlineStateAt(now))
		})
	}
}
