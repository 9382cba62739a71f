package instant

import (
	"testing"
	"time"

	"github.com/kailas-cloud/intell/internal/domain/search/result"
)

var fixedClock = func() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
}

func TestResolve_Math(t *testing.T) {
	r := New(fixedClock)
	for range 3 {
		ia := r.Resolve("2+2")
		if ia == nil {
			t.Fatal("expected an answer for 2+2")
		}
		if ia.Type != result.AnswerMath || ia.Answer != "4" {
			t.Fatalf("Resolve(2+2) = %+v, want {math 4}", ia)
		}
		if ia.Label != LabelMath || ia.Expression != "2+2" {
			t.Errorf("unexpected label/expression: %+v", ia)
		}
	}
}

func TestResolve_LargeIntegers(t *testing.T) {
	r := New(fixedClock)
	for q, want := range map[string]string{
		"2**63":  "9223372036854775808",
		"2**100": "1267650600228229401496703205376",
	} {
		ia := r.Resolve(q)
		if ia == nil {
			t.Fatalf("Resolve(%q) = nil, want %s", q, want)
		}
		if ia.Answer != want {
			t.Errorf("Resolve(%q) = %q, want %q", q, ia.Answer, want)
		}
	}
}

func TestResolve_NonPureExpression(t *testing.T) {
	r := New(fixedClock)
	for _, q := range []string{
		"2+2*hack()",
		"__import__('os').system('ls')",
		"1/0",
		"covid-19",
		"2024-01-01",
		"c++ tutorial",
		"x**2",
	} {
		if ia := r.Resolve(q); ia != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", q, ia)
		}
	}
}

func TestResolve_Time(t *testing.T) {
	r := New(fixedClock)
	for _, q := range []string{"what time is it", "  Current TIME ", "now", "time+1"} {
		ia := r.Resolve(q)
		if ia == nil {
			t.Fatalf("Resolve(%q) = nil, want time answer", q)
		}
		if ia.Type != result.AnswerTime || ia.Answer != "2024-03-09 14:05:07" || ia.Label != LabelTime {
			t.Errorf("Resolve(%q) = %+v", q, ia)
		}
	}
}

func TestResolve_NoIntent(t *testing.T) {
	r := New(nil)
	for _, q := range []string{"", "   ", "python tutorial", "golang"} {
		if ia := r.Resolve(q); ia != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", q, ia)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2+2", "4"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 - 4 - 3", "3"},
		{"7/2", "3.5"},
		{"4/2", "2.0"},
		{"7 % 3", "1"},
		{"-7 % 3", "2"},
		{"7 % -3", "-2"},
		{"7.5 % 2", "1.5"},
		{"2**10", "1024"},
		{"2**3**2", "512"},
		{"-2**2", "-4"},
		{"(-2)**2", "4"},
		{"2**-1", "0.5"},
		{"--3", "3"},
		{"+5", "5"},
		{"1.5*2", "3.0"},
		{".5+.25", "0.75"},
		{"1e3", "1000.0"},
		{"10**16/1", "1e+16"},
		{"1/100000", "1e-05"},
		{"1/10000", "0.0001"},
		{"0.1+0.2", "0.30000000000000004"},
		{"0*-1.0", "-0.0"},
		{"00+1", "1"},
		{"2**63", "9223372036854775808"},
		{"2**100", "1267650600228229401496703205376"},
		{"9999999999*9999999999", "99999999980000000001"},
		{"9223372036854775807+1", "9223372036854775808"},
		{"-(2**64) % 7", "5"},
		{"(-1)**12345678901234567891", "-1"},
		{"2**100/2**99", "2.0"},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Evaluate(tc.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tc.expr, err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	for _, expr := range []string{
		"", "2+", "(2+3", "2+3)", "2 3", "1/0", "1%0", "1.0%0", "0**-1",
		"(-8)**0.5", "10.0**400", "2**65536", "9**9**9", "2**10000*2**60000",
		"2**2000/1", "2**2000+0.5",
		"1_000+1", "0x10+1", "08+1", "1e+", ".", "abs(-1)", "2//3",
	} {
		if got, err := Evaluate(expr); err == nil {
			t.Errorf("Evaluate(%q) = %q, want error", expr, got)
		}
	}
}
