package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLongestIncreasingSubsequence(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"empty", nil, nil},
		{"sorted", []int{1, 2, 3}, []int{0, 1, 2}},
		{"reversed", []int{3, 2, 1}, []int{2}},
		{"swapped pairs", []int{3, 2, 5, 4}, []int{1, 3}},
		{"zeros skipped", []int{0, 2, 0, 3, 1}, []int{1, 3}},
		{"all zeros", []int{0, 0}, nil},
		{"classic", []int{2, 8, 6, 9, 4, 5, 7}, []int{0, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LongestIncreasingSubsequence(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LIS(%v) (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
