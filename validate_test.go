package main

import "testing"

func TestCanonicalizeNick(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice", "alice"},
		{"{}|^~", "{}|^^"},
		{"[]\\~", "{}|^"},
		{"-[\\]^_`{|}", "-{|}^_`{|}"},
	}

	for _, tt := range tests {
		got := canonicalizeNick(tt.input)
		if got != tt.want {
			t.Errorf("canonicalizeNick(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidNick(t *testing.T) {
	tests := []struct {
		nick string
		want bool
	}{
		{"alice", true},
		{"_alice", true},
		{"[alice]", true},
		{"1alice", false},
		{"", false},
		{"toolongnickname", false},
		{"root", false},
		{"Guest", false},
		{"al ice", false},
	}

	for _, tt := range tests {
		got := isValidNick(tt.nick)
		if got != tt.want {
			t.Errorf("isValidNick(%q) = %v, want %v", tt.nick, got, tt.want)
		}
	}
}

func TestIsValidChannel(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"#general", true},
		{"&local", true},
		{"general", false},
		{"#", true},
		{"#has space", false},
		{"#has,comma", false},
	}

	for _, tt := range tests {
		got := isValidChannel(tt.name)
		if got != tt.want {
			t.Errorf("isValidChannel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeChannelTarget(t *testing.T) {
	if got := normalizeChannelTarget("general"); got != "#general" {
		t.Errorf("normalizeChannelTarget(general) = %q, want #general", got)
	}
	if got := normalizeChannelTarget("#general"); got != "#general" {
		t.Errorf("normalizeChannelTarget(#general) = %q, want #general", got)
	}
	if got := normalizeChannelTarget("&local"); got != "&local" {
		t.Errorf("normalizeChannelTarget(&local) = %q, want &local", got)
	}
}
