package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"0.01", 1, true},
		{"100", 10000, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.cents {
				t.Fatalf("%q expected %d cents, got %d (err=%v)", tc.in, tc.cents, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseAmountOverflow(t *testing.T) {
	for _, in := range []string{
		"99999999999999999999",
		"10000000000000.01",
	} {
		if _, err := ParseAmount(in); !errors.Is(err, ErrAmountOverflow) {
			t.Fatalf("%q expected ErrAmountOverflow, got %v", in, err)
		}
	}
	// The boundary itself still parses
	m, err := ParseAmount("10000000000000.00")
	if err != nil || m.Cents != MaxCents {
		t.Fatalf("boundary parse failed: %d, %v", m.Cents, err)
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100.00"},
		{"100.5", "100.50"},
		{"0", "0.00"},
		{"7.07", "7.07"},
		{"1500,00", "1500.00"},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if err != nil {
			t.Fatalf("%q unexpected error: %v", tc.in, err)
		}
		if got := m.String(); got != tc.want {
			t.Fatalf("%q round-tripped to %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoneyAdd(t *testing.T) {
	a := Money{Cents: 150}
	b := Money{Cents: 250}
	sum, err := a.Add(b)
	if err != nil || sum.Cents != 400 {
		t.Fatalf("expected 400, got %d (err=%v)", sum.Cents, err)
	}

	if _, err := (Money{Cents: MaxCents}).Add(Money{Cents: 1}); !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
}

func TestSumAmounts(t *testing.T) {
	total, err := SumAmounts([]Money{{Cents: 1}, {Cents: 2}, {Cents: 3}})
	if err != nil || total.Cents != 6 {
		t.Fatalf("expected 6, got %d (err=%v)", total.Cents, err)
	}

	total, err = SumAmounts(nil)
	if err != nil || !total.IsZero() {
		t.Fatalf("empty sum should be zero, got %d (err=%v)", total.Cents, err)
	}

	if _, err := SumAmounts([]Money{{Cents: MaxCents}, {Cents: MaxCents}}); !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
}

func TestMoneyCompare(t *testing.T) {
	if (Money{Cents: 1}).Compare(Money{Cents: 2}) != -1 {
		t.Fatal("1 < 2 expected")
	}
	if (Money{Cents: 2}).Compare(Money{Cents: 1}) != 1 {
		t.Fatal("2 > 1 expected")
	}
	if (Money{Cents: 2}).Compare(Money{Cents: 2}) != 0 {
		t.Fatal("2 == 2 expected")
	}
}
