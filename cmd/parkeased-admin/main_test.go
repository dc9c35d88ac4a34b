package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parkease/parkeased/internal/domain/model"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host   string
		remote bool
	}{
		{"localhost", false},
		{"127.0.0.1", false},
		{"::1", false},
		{"db.local", false},
		{"", false},
		{"10.0.0.5", true},
		{"db.internal.example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			require.Equal(t, tt.remote, isLikelyRemoteHost(tt.host))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	require.Equal(t, `"parkease"`, quoteIdentifier("parkease"))
	require.Equal(t, `"odd""user"`, quoteIdentifier(`odd"user`))
}

func TestPrintSpotsIncludesTotals(t *testing.T) {
	var buf bytes.Buffer
	spots := []*model.ParkingSpot{
		{ID: "s1", Name: "Downtown Parking A", Address: "123 Main St", PricePerHour: 5, Available: true},
		{ID: "s2", Name: "West End Garage", Address: "321 Elm St", PricePerHour: 7, Available: false},
	}

	require.NoError(t, printSpots(&buf, spots, 4))

	out := buf.String()
	require.Contains(t, out, "Downtown Parking A")
	require.Contains(t, out, "West End Garage")
	require.Contains(t, out, "2 of 4 spots shown")
}
