package radio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func span(title string, from, to time.Duration) Program {
	return Program{
		Title: title,
		Start: testNow.Add(from),
		End:   testNow.Add(to),
	}
}

func TestFilterWindowScenarios(t *testing.T) {
	tests := []struct {
		name    string
		program Program
		kept    bool
	}{
		{name: "on air", program: span("now", -time.Hour, time.Hour), kept: true},
		{name: "entirely before", program: span("before", -20*time.Hour, -13*time.Hour), kept: false},
		{name: "straddles lower bound", program: span("lower", -13*time.Hour, -11*time.Hour), kept: true},
		{name: "straddles upper bound", program: span("upper", 11*time.Hour, 14*time.Hour), kept: true},
		{name: "entirely after", program: span("after", 13*time.Hour, 15*time.Hour), kept: false},
		{name: "ends exactly at lower bound", program: span("edge-lower", -14*time.Hour, -12*time.Hour), kept: true},
		{name: "starts exactly at upper bound", program: span("edge-upper", 12*time.Hour, 13*time.Hour), kept: true},
		{name: "covers whole window", program: span("long", -30*time.Hour, 30*time.Hour), kept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterWindow([]Program{tt.program}, testNow)
			if tt.kept {
				// 跨越边界的节目不做截断
				assert.Equal(t, []Program{tt.program}, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterWindowPreservesOrderAndPartitions(t *testing.T) {
	programs := []Program{
		span("a", -20*time.Hour, -13*time.Hour),
		span("b", 2*time.Hour, 3*time.Hour),
		span("c", -13*time.Hour, -11*time.Hour),
		span("d", 13*time.Hour, 14*time.Hour),
		span("e", -time.Hour, time.Hour),
	}

	filtered := FilterWindow(programs, testNow)
	lower, upper := WindowBounds(testNow)

	var keptTitles []string
	for _, p := range filtered {
		keptTitles = append(keptTitles, p.Title)
		assert.False(t, p.Start.After(upper), p.Title)
		assert.False(t, p.End.Before(lower), p.Title)
	}
	assert.Equal(t, []string{"b", "c", "e"}, keptTitles)

	for _, p := range programs {
		if p.Title == "a" || p.Title == "d" {
			assert.True(t, p.Start.After(upper) || p.End.Before(lower), p.Title)
		}
	}
}

func TestFilterWindowDoesNotMutateInput(t *testing.T) {
	programs := []Program{
		span("a", -20*time.Hour, -13*time.Hour),
		span("b", -time.Hour, time.Hour),
	}
	before := append([]Program(nil), programs...)

	_ = FilterWindow(programs, testNow)
	assert.Equal(t, before, programs)
}

func TestFilterWindowEmpty(t *testing.T) {
	assert.Empty(t, FilterWindow(nil, testNow))
}
