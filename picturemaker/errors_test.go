package picturemaker

import (
	"errors"
	"testing"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want string
	}{
		{"string", "navigation failed", "navigation failed"},
		{"error", errors.New("browser: launch: boom"), "browser: launch: boom"},
		{"map", map[string]int{"code": 3}, `{"code":3}`},
		{"number", 42, "42"},
		{"nil", nil, "null"},
		{"unmarshalable", func() {}, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := describe(c.v)
			if c.name == "unmarshalable" {
				if got == "" {
					t.Fatal("describe: got empty string for func value")
				}
				return
			}
			if got != c.want {
				t.Fatalf("describe: got %q, want %q", got, c.want)
			}
		})
	}
}

func TestPanicError_Unwrap(t *testing.T) {
	base := errors.New("cdp: target crashed")
	err := error(&panicError{value: base})
	if !errors.Is(err, base) {
		t.Fatal("errors.Is: panicError does not unwrap to the recovered error")
	}
	if (&panicError{value: "x"}).Unwrap() != nil {
		t.Fatal("Unwrap: got non-nil for string value")
	}
}
