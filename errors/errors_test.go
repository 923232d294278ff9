package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	plain := stdlib.New("disk full")
	cases := map[string]struct {
		err  error
		want error
	}{
		"root":                {err: ErrNotFound, want: ErrNotFound},
		"wrapped root":        {err: Wrapf(ErrNotFound, "swap %d", 3), want: ErrNotFound},
		"wrapped plain error": {err: Wrap(plain, "save swap"), want: plain},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.want {
				t.Fatalf("want cause %v, got %v", tc.want, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		root *Error
		err  error
		want bool
	}{
		"same root":           {root: ErrNotFound, err: ErrNotFound, want: true},
		"other root":          {root: ErrNotFound, err: ErrModel},
		"wrapped same root":   {root: ErrNotFound, err: Wrap(ErrNotFound, "gone"), want: true},
		"wrapped other root":  {root: ErrNotFound, err: Wrap(ErrOverflow, "too big")},
		"wrapped twice":       {root: ErrUnauthorized, err: Wrap(Wrapf(ErrUnauthorized, "caller %d", 7), "redeem"), want: true},
		"plain error":         {root: ErrNotFound, err: fmt.Errorf("not found")},
		"wrapped plain error": {root: ErrNotFound, err: Wrap(fmt.Errorf("not found"), "swap")},
		"nil matches nil":     {want: true},
		"nil root":            {err: ErrNotFound},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.root.Is(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
	if err := Wrapf(nil, "nothing %d", 1); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrapf(ErrInput, "value %d", 42)
	if got, want := err.Error(), "value 42: invalid input"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if st := stackTrace(err); st == nil {
		t.Fatal("stack trace not attached")
	}
	if full := fmt.Sprintf("%+v", err); !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stack trace not printed: %s", full)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrNotFound.ABCICode(), "again")
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestABCIError(t *testing.T) {
	err := ABCIError(ErrUnauthorized.ABCICode(), "from the chain")
	if !ErrUnauthorized.Is(err) {
		t.Fatalf("registered code not resolved: %+v", err)
	}
	unknown := ABCIError(987654, "who knows")
	if ErrUnauthorized.Is(unknown) {
		t.Fatal("unknown code must not match")
	}
	if code, _ := ABCIInfo(unknown, false); code != 987654 {
		t.Fatalf("unexpected code %d", code)
	}
}
