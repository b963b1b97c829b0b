package logger

import (
	"reflect"
	"testing"
)

func TestRingBufferBelowCapacity(t *testing.T) {
	rb := NewRingBuffer[int](5)
	rb.Push(1)
	rb.Push(2)
	rb.Push(3)

	if rb.Len() != 3 {
		t.Errorf("Len = %d, want 3", rb.Len())
	}
	if got := rb.All(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("All = %v", got)
	}
}

func TestRingBufferEvictsOldest(t *testing.T) {
	rb := NewRingBuffer[int](3)
	for i := 1; i <= 5; i++ {
		rb.Push(i)
	}

	if rb.Len() != 3 {
		t.Errorf("Len = %d, want 3", rb.Len())
	}
	if got := rb.All(); !reflect.DeepEqual(got, []int{3, 4, 5}) {
		t.Errorf("All = %v, want [3 4 5]", got)
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer[string](4)
	if rb.Len() != 0 {
		t.Errorf("Len = %d, want 0", rb.Len())
	}
	if got := rb.All(); len(got) != 0 {
		t.Errorf("All = %v", got)
	}
}

func TestRingBufferWrapsRepeatedly(t *testing.T) {
	rb := NewRingBuffer[int](2)
	for i := 0; i < 10; i++ {
		rb.Push(i)
	}
	if got := rb.All(); !reflect.DeepEqual(got, []int{8, 9}) {
		t.Errorf("All = %v, want [8 9]", got)
	}
}
