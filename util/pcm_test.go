package util

import "testing"

func TestFloat32ToInt16Clamps(t *testing.T) {
	if Float32ToInt16(2.0) != 32767 {
		t.Error("Float32ToInt16(2.0) should clamp to 32767")
	}
	if Float32ToInt16(-2.0) != -32768 {
		t.Error("Float32ToInt16(-2.0) should clamp to -32768")
	}
	if Float32ToInt16(0) != 0 {
		t.Error("Float32ToInt16(0) should be 0")
	}
}

func TestFloat64ToInt16Clamps(t *testing.T) {
	if Float64ToInt16(2.0) != 32767 {
		t.Error("Float64ToInt16(2.0) should clamp to 32767")
	}
	if Float64ToInt16(-2.0) != -32768 {
		t.Error("Float64ToInt16(-2.0) should clamp to -32768")
	}
	if Float64ToInt16(0.5) != 16384 {
		t.Error("Float64ToInt16(0.5) should be 16384")
	}
}
