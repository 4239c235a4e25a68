package services

import (
	"errors"
	"testing"
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
)

func TestGenerateGrid(t *testing.T) {
	tests := []struct {
		name        string
		start       time.Time
		end         time.Time
		granularity time.Duration
		wantCount   int
		wantErr     error
	}{
		{
			name:        "four hours by 15 minutes",
			start:       at(8, 0),
			end:         at(12, 0),
			granularity: 15 * time.Minute,
			wantCount:   16,
		},
		{
			name:        "full working day by 15 minutes",
			start:       at(8, 0),
			end:         at(17, 0),
			granularity: 15 * time.Minute,
			wantCount:   36,
		},
		{
			name:        "hour by 30 minutes",
			start:       at(9, 0),
			end:         at(10, 0),
			granularity: 30 * time.Minute,
			wantCount:   2,
		},
		{
			name:        "window shorter than granularity gives one slot",
			start:       at(8, 0),
			end:         at(8, 10),
			granularity: 15 * time.Minute,
			wantCount:   1,
		},
		{
			name:        "empty window",
			start:       at(8, 0),
			end:         at(8, 0),
			granularity: 15 * time.Minute,
			wantErr:     domain.ErrInvalidWindow,
		},
		{
			name:        "inverted window",
			start:       at(17, 0),
			end:         at(8, 0),
			granularity: 15 * time.Minute,
			wantErr:     domain.ErrInvalidWindow,
		},
		{
			name:        "zero granularity",
			start:       at(8, 0),
			end:         at(12, 0),
			granularity: 0,
			wantErr:     domain.ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := GenerateGrid(tt.start, tt.end, tt.granularity)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(grid) != tt.wantCount {
				t.Fatalf("expected %d slots, got %d", tt.wantCount, len(grid))
			}
			if !grid[0].Equal(tt.start) {
				t.Errorf("first slot should start at window start, got %v", grid[0])
			}
			last := grid[len(grid)-1]
			if !last.Before(tt.end) {
				t.Errorf("last slot start %v must be strictly before window end %v", last, tt.end)
			}
			for i := 1; i < len(grid); i++ {
				if grid[i].Sub(grid[i-1]) != tt.granularity {
					t.Errorf("slots %d and %d are not %v apart", i-1, i, tt.granularity)
				}
			}
		})
	}
}

func TestOccupiedSpan(t *testing.T) {
	g := 15 * time.Minute
	tests := []struct {
		duration time.Duration
		want     time.Duration
	}{
		{15 * time.Minute, 15 * time.Minute},
		{30 * time.Minute, 30 * time.Minute},
		{40 * time.Minute, 45 * time.Minute},
		{1 * time.Minute, 15 * time.Minute},
		{46 * time.Minute, 60 * time.Minute},
	}

	for _, tt := range tests {
		if got := occupiedSpan(tt.duration, g); got != tt.want {
			t.Errorf("occupiedSpan(%v) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}

func TestAlignedToGrid(t *testing.T) {
	start := at(8, 0)
	g := 15 * time.Minute

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"window start", at(8, 0), true},
		{"slot boundary", at(9, 45), true},
		{"between boundaries", at(9, 50), false},
		{"one minute off", at(8, 1), false},
		{"before window start", at(7, 45), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlignedToGrid(tt.t, start, g); got != tt.want {
				t.Errorf("AlignedToGrid(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}
