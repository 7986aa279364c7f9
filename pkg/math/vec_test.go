package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Floor(t *testing.T) {
	tests := []struct {
		in   Vec2
		want Vec2
	}{
		{Vec2{1.7, 2.2}, Vec2{1, 2}},
		{Vec2{-0.5, 3}, Vec2{-1, 3}},
		{Vec2{0, 0}, Vec2{0, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Floor(); got != tt.want {
			t.Errorf("Vec2%v.Floor() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVec2MirrorX(t *testing.T) {
	got := Vec2{3, -2}.MirrorX()
	if got != (Vec2{-3, -2}) {
		t.Errorf("Vec2.MirrorX() = %v", got)
	}
	if !(Vec2{}).IsZero() {
		t.Error("zero vector should report IsZero")
	}
}
