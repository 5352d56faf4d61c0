package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"175", "₹175"},
		{"175.5", "₹175.50"},
		{"2500", "₹2,500"},
		{"9875", "₹9,875"},
		{"15000", "₹15,000"},
		{"170.83", "₹170.83"},
		{"1234567.5", "₹12,34,567.50"},
		{"12345678", "₹1,23,45,678"},
		{"-45.5", "-₹45.50"},
	}
	for _, tc := range cases {
		v, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got := FormatMoney(v); got != tc.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(decimal.NewFromInt(45)); got != "+₹45" {
		t.Errorf("FormatSigned(45) = %q, want +₹45", got)
	}
	if got := FormatSigned(decimal.NewFromInt(-45)); got != "-₹45" {
		t.Errorf("FormatSigned(-45) = %q, want -₹45", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "10 May 2025" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDayOfWeek(d); got != "Sat" {
		t.Errorf("FormatDayOfWeek = %q", got)
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(1); got != "1 day" {
		t.Errorf("FormatDays(1) = %q", got)
	}
	if got := FormatDays(12); got != "12 days" {
		t.Errorf("FormatDays(12) = %q", got)
	}
}

func TestRenderSparklineScales(t *testing.T) {
	values := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(50),
		decimal.NewFromInt(100),
	}
	got := RenderSparkline(values)
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(runes))
	}
	if runes[0] != '▁' || runes[2] != '█' {
		t.Errorf("sparkline = %q", got)
	}
}
