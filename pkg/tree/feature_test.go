package tree

import "testing"

func TestValueAccessors(t *testing.T) {
	if f, ok := Num(2.5).Float(); !ok || f != 2.5 {
		t.Errorf("Num(2.5).Float() = %g, %v", f, ok)
	}
	if s, ok := Str("red").Text(); !ok || s != "red" {
		t.Errorf("Str(red).Text() = %q, %v", s, ok)
	}
	if b, ok := Bool(true).Truth(); !ok || !b {
		t.Errorf("Bool(true).Truth() = %v, %v", b, ok)
	}
	// Cross-kind accessors report a miss.
	if _, ok := Str("red").Float(); ok {
		t.Error("string value should not read as a number")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{v: Num(1.5), want: "1.5"},
		{v: Str("red"), want: "red"},
		{v: Bool(false), want: "false"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFromInterfaceRoundTrip(t *testing.T) {
	for _, raw := range []any{3.25, "label", true} {
		v, err := FromInterface(raw)
		if err != nil {
			t.Fatalf("FromInterface(%v): %v", raw, err)
		}
		if got := v.Interface(); got != raw {
			t.Errorf("Interface() = %v, want %v", got, raw)
		}
	}
	if _, err := FromInterface([]int{1}); err == nil {
		t.Error("expected error for unsupported feature type")
	}
}

func TestNodeFeatures(t *testing.T) {
	n := NewNode("A")
	n.SetFeature("rate", Num(0.1))
	n.SetFeature("rate", Num(0.2)) // overwrite

	v, ok := n.Feature("rate")
	if !ok {
		t.Fatal("feature missing")
	}
	if f, _ := v.Float(); f != 0.2 {
		t.Errorf("rate = %g, want 0.2", f)
	}
	if _, ok := n.Feature("absent"); ok {
		t.Error("absent feature reported present")
	}
	if m := n.Features(); len(m) != 1 {
		t.Errorf("Features() has %d entries, want 1", len(m))
	}
}
