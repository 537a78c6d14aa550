package generator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"550", "550.00 ر.ق"},
		{"0", "0.00 ر.ق"},
		{"1234.5", "1,234.50 ر.ق"},
		{"1000000", "1,000,000.00 ر.ق"},
		{"999.999", "1,000.00 ر.ق"},
		{"-2500", "-2,500.00 ر.ق"},
		{"-1234.5", "-1,234.50 ر.ق"},
		{"-0.001", "0.00 ر.ق"},
		{"-0.005", "-0.01 ر.ق"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(time.Time{}))
	assert.Equal(t, "07/03/2024", FormatDate(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))
}
