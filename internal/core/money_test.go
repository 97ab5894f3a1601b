package core

import (
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
		{"1.５", 0, false},
		{"1.٣", 0, false},
		{"0.１２", 0, false},
		{"١٢", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyFromFloat(t *testing.T) {
	m, err := MoneyFromFloat(12.34)
	if err != nil || m.Cents != 1234 {
		t.Fatalf("expected 1234 cents, got %d (err=%v)", m.Cents, err)
	}
	if _, err := MoneyFromFloat(-1); err == nil {
		t.Fatalf("expected error for negative amount")
	}
	if m.Float() != 12.34 {
		t.Fatalf("expected 12.34, got %v", m.Float())
	}
	if m.String() != "12.34" {
		t.Fatalf("expected \"12.34\", got %q", m.String())
	}
}

func TestMoneyFromFloatBounds(t *testing.T) {
	cases := []struct {
		in float64
		ok bool
	}{
		{0, true},
		{92233720368547744, true},
		{92233720368547758, false},
		{math.MaxFloat64, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, tc := range cases {
		m, err := MoneyFromFloat(tc.in)
		if tc.ok {
			if err != nil || m.Cents < 0 {
				t.Fatalf("%v: expected non-negative cents, got %d (err=%v)", tc.in, m.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%v: expected error, got %d cents", tc.in, m.Cents)
		}
	}
}

func TestMoneyAddSaturates(t *testing.T) {
	big := Money{Cents: math.MaxInt64 - 1}
	if got := big.Add(Money{Cents: 5}); got.Cents != math.MaxInt64 {
		t.Fatalf("expected saturation, got %d", got.Cents)
	}
	if got := (Money{Cents: 2}).Add(Money{Cents: 3}); got.Cents != 5 {
		t.Fatalf("expected 5, got %d", got.Cents)
	}
}
