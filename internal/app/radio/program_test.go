package radio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgramState(t *testing.T) {
	p := span("now", -time.Hour, time.Hour)
	assert.True(t, p.IsOnAir(testNow))
	assert.False(t, p.HasEnded(testNow))

	past := span("past", -3*time.Hour, -time.Hour)
	assert.True(t, past.HasEnded(testNow))
	assert.False(t, past.IsOnAir(testNow))

	future := span("future", time.Hour, 2*time.Hour)
	assert.False(t, future.HasEnded(testNow))
	assert.False(t, future.IsOnAir(testNow))
}

func TestProgramDetail(t *testing.T) {
	p := Program{
		Name:        "Ekot",
		Title:       "Ekot 12.00",
		Subtitle:    "Lunchekot",
		Description: "Nyheter",
		ImageURL:    "https://static-cdn.sr.se/images/4540/ekot.jpg",
		Start:       time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC),
	}

	detail := p.Detail(time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, ProgramDetail{
		Name:        "Ekot",
		Title:       "Ekot 12.00",
		Subtitle:    "Lunchekot",
		Description: "Nyheter",
		ImageURL:    "https://static-cdn.sr.se/images/4540/ekot.jpg",
		Start:       "2026-10-19 // 12:00",
		End:         "2026-10-19 // 12:30",
	}, detail)
}
