package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDollarsToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    int64
		wantErr bool
	}{
		{name: "exact cents", in: 15.99, want: 1599},
		{name: "whole dollars", in: 100, want: 10000},
		{name: "negative refund", in: -4.50, want: -450},
		{name: "float repr noise", in: 19.99, want: 1999},
		{name: "zero", in: 0, want: 0},
		{name: "nan rejected", in: math.NaN(), wantErr: true},
		{name: "inf rejected", in: math.Inf(1), wantErr: true},
		{name: "too large rejected", in: 1e17, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DollarsToCents(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "15.99", FormatCents(1599))
	assert.Equal(t, "-0.05", FormatCents(-5))
	assert.Equal(t, "0.00", FormatCents(0))
}
