package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReservationStatus(t *testing.T) {
	st, ok := ParseReservationStatus("  Active ")
	require.True(t, ok)
	assert.Equal(t, ReservationStatusActive, st)

	_, ok = ParseReservationStatus("pending")
	assert.False(t, ok)
}

func TestCreateReservationRequest_Validate(t *testing.T) {
	valid := CreateReservationRequest{SpotID: "spot-1", Date: "2025-05-20", TimeStart: "10:00", TimeEnd: "12:00"}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  CreateReservationRequest
	}{
		{"missing spot", CreateReservationRequest{Date: "2025-05-20", TimeStart: "10:00", TimeEnd: "12:00"}},
		{"bad date", CreateReservationRequest{SpotID: "spot-1", Date: "20-05-2025", TimeStart: "10:00", TimeEnd: "12:00"}},
		{"bad start", CreateReservationRequest{SpotID: "spot-1", Date: "2025-05-20", TimeStart: "10am", TimeEnd: "12:00"}},
		{"bad end", CreateReservationRequest{SpotID: "spot-1", Date: "2025-05-20", TimeStart: "10:00", TimeEnd: ""}},
		{"inverted slot", CreateReservationRequest{SpotID: "spot-1", Date: "2025-05-20", TimeStart: "12:00", TimeEnd: "10:00"}},
		{"zero-length slot", CreateReservationRequest{SpotID: "spot-1", Date: "2025-05-20", TimeStart: "10:00", TimeEnd: "10:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.req.Validate())
		})
	}
}

func TestReservation_StartsAfter(t *testing.T) {
	r := Reservation{Date: "2025-05-10", TimeStart: "09:00"}
	before := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	after := time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)

	assert.True(t, r.StartsAfter(before))
	assert.False(t, r.StartsAfter(after))

	malformed := Reservation{Date: "not-a-date", TimeStart: "09:00"}
	assert.False(t, malformed.StartsAfter(before))
}
