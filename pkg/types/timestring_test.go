package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("18:30")
	assert.NoError(t, err)
	assert.Equal(t, "18:30", ts.String())

	for _, bad := range []string{"", "25:00", "12:60", "noon", "9:00am"} {
		_, err := NewTimeStringFromString(bad)
		assert.Error(t, err, "value %q must be rejected", bad)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("18:00")

	shifted, err := ts.AddMinutes(90)
	assert.NoError(t, err)
	assert.Equal(t, TimeString("19:30"), shifted)

	// Переход через полночь не поддерживается
	_, err = ts.AddMinutes(6 * 60)
	assert.Error(t, err)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("18:00"))
	assert.True(t, TimeString("18:00").IsAfter("09:00"))
	assert.False(t, TimeString("12:00").IsBefore("12:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// TIME из PostgreSQL приходит с секундами
	assert.NoError(t, ts.Scan("18:30:00"))
	assert.Equal(t, TimeString("18:30"), ts)

	assert.NoError(t, ts.Scan([]byte("09:15")))
	assert.Equal(t, TimeString("09:15"), ts)

	assert.NoError(t, ts.Scan(time.Date(2026, 9, 1, 11, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:45"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("18:00").Value()
	assert.NoError(t, err)
	assert.Equal(t, "18:00", v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}
