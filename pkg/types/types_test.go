package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid morning", input: "09:00"},
		{name: "valid last minute", input: "23:59"},
		{name: "missing leading zero", input: "9:00", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "with seconds", input: "10:00:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("11:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00"), got)

	_, err = TimeString("23:45").AddMinutes(15)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:30").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("13:00").IsAfter("12:59"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("10:30:00")))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:05"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestDateString_At(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)

	at, err := DateString("2025-06-10").At("10:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 10, 0, 0, 0, loc), at)
}

func TestDateString_Validate(t *testing.T) {
	_, err := NewDateStringFromString("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDateString)

	d, err := NewDateStringFromString("2025-06-10")
	require.NoError(t, err)
	next, err := d.AddDays(1)
	require.NoError(t, err)
	assert.Equal(t, DateString("2025-06-11"), next)
	assert.True(t, d.Before(next))
}
