package fixed

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestParseRoundTrip verifies that the source scale survives parse + render.
func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"0",
		"1",
		"100",
		"0.1",
		"0.01",
		"0.0001",
		"0.0100",
		"173.35998175",
		"-0.0000039641039274236048482914",
		"12345.000",
	}

	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			d, err := Parse(in)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", in, err)
			}
			if got := d.String(); got != in {
				t.Errorf("String() = %q, want %q", got, in)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "0x10", "1,5"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", in)
			}
			var invalid *InvalidDecimalError
			if !errors.As(err, &invalid) {
				t.Errorf("error type = %T, want *InvalidDecimalError", err)
			}
		})
	}
}

func TestScale(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"0.0001", 4},
		{"0.01", 2},
		{"0.0100", 4},
		{"1", 0},
		{"100", 0},
		{"1.5", 1},
	}

	for _, tt := range cases {
		d := MustParse(tt.in)
		if got := d.Scale(); got != tt.want {
			t.Errorf("Scale(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestArithmeticExact(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not 0.30000000000000004.
	sum := MustParse("0.1").Add(MustParse("0.2"))
	if !sum.Equal(MustParse("0.3")) {
		t.Errorf("0.1 + 0.2 = %s, want 0.3", sum)
	}

	diff := MustParse("1.00").Sub(MustParse("0.99"))
	if !diff.Equal(MustParse("0.01")) {
		t.Errorf("1.00 - 0.99 = %s, want 0.01", diff)
	}
}

func TestCompare(t *testing.T) {
	if MustParse("1.0").Cmp(MustParse("1.00")) != 0 {
		t.Error("1.0 and 1.00 should compare equal")
	}
	if MustParse("0.0001").Cmp(MustParse("0.001")) != -1 {
		t.Error("0.0001 should compare less than 0.001")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Run("string token", func(t *testing.T) {
		var d Decimal
		if err := json.Unmarshal([]byte(`"0.0100"`), &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		out, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(out) != `"0.0100"` {
			t.Errorf("marshal = %s, want %q", out, `"0.0100"`)
		}
	})

	t.Run("bare numeric token", func(t *testing.T) {
		var d Decimal
		if err := json.Unmarshal([]byte(`173.44031179`), &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !d.Equal(MustParse("173.44031179")) {
			t.Errorf("got %s, want 173.44031179", d)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		var d Decimal
		err := json.Unmarshal([]byte(`"not-a-number"`), &d)
		var invalid *InvalidDecimalError
		if !errors.As(err, &invalid) {
			t.Errorf("error = %v, want *InvalidDecimalError", err)
		}
	})
}
