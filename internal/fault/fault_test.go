package fault

import (
	"errors"
	"testing"
)

func TestRecover_CatchesFault(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		Raise(SubsystemDLA, "unsupported opcode %s", "GEP")
		return nil
	}

	err := run()
	if err == nil {
		t.Fatal("expected an error from a raised fault")
	}
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *Fault, got %T", err)
	}
	if f.Subsystem != SubsystemDLA {
		t.Errorf("Subsystem = %v, want %v", f.Subsystem, SubsystemDLA)
	}
}

func TestRecover_RepanicsNonFault(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected non-fault panic to propagate")
		}
	}()

	run := func() (err error) {
		defer Recover(&err)
		panic("not a fault")
	}
	_ = run()
}

func TestRecover_NoPanicLeavesErrNil(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		return nil
	}
	if err := run(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestRaiseValue_IncludesValueID(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		RaiseValue(SubsystemASTBuilder, "%42", "unsupported cast kind")
		return nil
	}
	err := run()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *Fault, got %T", err)
	}
	if f.ValueID != "%42" {
		t.Errorf("ValueID = %q, want %q", f.ValueID, "%42")
	}
}
