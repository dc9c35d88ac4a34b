package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSpotRequest_Validate(t *testing.T) {
	valid := CreateSpotRequest{Name: "Downtown Parking A", Address: "123 Main St", PricePerHour: 5}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  CreateSpotRequest
		msg  string
	}{
		{"empty name", CreateSpotRequest{Address: "123 Main St", PricePerHour: 5}, "name is required"},
		{"blank name", CreateSpotRequest{Name: "   ", Address: "123 Main St", PricePerHour: 5}, "name is required"},
		{"long name", CreateSpotRequest{Name: strings.Repeat("x", 256), Address: "123 Main St", PricePerHour: 5}, "too long"},
		{"empty address", CreateSpotRequest{Name: "Lot", PricePerHour: 5}, "address is required"},
		{"zero price", CreateSpotRequest{Name: "Lot", Address: "123 Main St"}, "must be positive"},
		{"negative price", CreateSpotRequest{Name: "Lot", Address: "123 Main St", PricePerHour: -1}, "must be positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestUpdateSpotRequest_Validate(t *testing.T) {
	assert.NoError(t, UpdateSpotRequest{}.Validate(), "empty update is a no-op, not an error")

	name := "Renamed Lot"
	price := 7.5
	assert.NoError(t, UpdateSpotRequest{Name: &name, PricePerHour: &price}.Validate())

	blank := "  "
	assert.Error(t, UpdateSpotRequest{Name: &blank}.Validate())

	zero := 0.0
	assert.Error(t, UpdateSpotRequest{PricePerHour: &zero}.Validate())
}
