package util

import "testing"

func TestParseAmountRange(t *testing.T) {
    cases := []struct {
        in       string
        min, max float64
        ok       bool
    }{
        {"$50K-$100K", 50000, 100000, true},
        {"1K–15K", 1000, 15000, true},
        {"$100,000 - $250,000", 100000, 250000, true},
        {"Over 1M", 1000000, 0, true},
        {"$5,000", 5000, 5000, true},
        {"", 0, 0, false},
        {"undisclosed", 0, 0, false},
    }
    for _, c := range cases {
        min, max, ok := ParseAmountRange(c.in)
        if ok != c.ok || min != c.min || max != c.max {
            t.Fatalf("%q: got (%v, %v, %v), want (%v, %v, %v)", c.in, min, max, ok, c.min, c.max, c.ok)
        }
    }
}

func TestFormatThousands(t *testing.T) {
    cases := map[float64]string{
        75000:   "75,000",
        8000:    "8,000",
        1000000: "1,000,000",
        500:     "500",
    }
    for in, want := range cases {
        if got := FormatThousands(in); got != want {
            t.Fatalf("FormatThousands(%v) = %q, want %q", in, got, want)
        }
    }
}
