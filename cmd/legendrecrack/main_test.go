// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import "testing"

func TestParsePositiveInt(t *testing.T) {
	if _, err := parsePositiveInt("n", "0"); err == nil {
		t.Errorf("parsePositiveInt(0): got nil error")
	}
	if _, err := parsePositiveInt("n", "-3"); err == nil {
		t.Errorf("parsePositiveInt(-3): got nil error")
	}
	if _, err := parsePositiveInt("n", "abc"); err == nil {
		t.Errorf("parsePositiveInt(abc): got nil error")
	}
	n, err := parsePositiveInt("n", "42")
	if err != nil || n != 42 {
		t.Errorf("parsePositiveInt(42) = %v, %v, want 42, nil", n, err)
	}
}

func TestEngineNames(t *testing.T) {
	for _, tc := range []struct {
		sel  string
		want []string
	}{
		{"set", []string{"set"}},
		{"bitmap", []string{"bitmap"}},
		{"both", []string{"set", "bitmap"}},
		{"", []string{"set", "bitmap"}},
	} {
		got, err := engineNames(tc.sel)
		if err != nil {
			t.Errorf("engineNames(%q): %v", tc.sel, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("engineNames(%q) = %v, want %v", tc.sel, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("engineNames(%q) = %v, want %v", tc.sel, got, tc.want)
			}
		}
	}
	if _, err := engineNames("quantum"); err == nil {
		t.Errorf("engineNames(quantum): got nil error")
	}
}
