package main

import "testing"

func TestLineFramerBasic(t *testing.T) {
	var f lineFramer

	lines, err := f.feed([]byte("NICK alice\r\nUSER a 0 * :Alice A\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %#v", len(lines), lines)
	}
	if lines[0] != "NICK alice" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "USER a 0 * :Alice A" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestLineFramerPartialRead(t *testing.T) {
	var f lineFramer

	lines, err := f.feed([]byte("NICK al"))
	if err != nil || len(lines) != 0 {
		t.Fatalf("expected no complete lines yet, got %v, err %v", lines, err)
	}

	lines, err = f.feed([]byte("ice\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "NICK alice" {
		t.Fatalf("got %#v, want [\"NICK alice\"]", lines)
	}
}

func TestLineFramerDropsEmptyLines(t *testing.T) {
	var f lineFramer
	lines, err := f.feed([]byte("\r\n\r\nPING x\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "PING x" {
		t.Fatalf("got %#v", lines)
	}
}

func TestLineFramerDropsOverlongLine(t *testing.T) {
	var f lineFramer
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	data := append(long, '\r', '\n')
	data = append(data, []byte("PING x\r\n")...)

	lines, err := f.feed(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "PING x" {
		t.Fatalf("overlong line should be dropped silently, got %#v", lines)
	}
}

func TestLineFramerExcessFlood(t *testing.T) {
	var f lineFramer
	data := make([]byte, maxBufferSize+1)
	for i := range data {
		data[i] = 'x'
	}

	_, err := f.feed(data)
	if err != errExcessFlood {
		t.Fatalf("expected errExcessFlood, got %v", err)
	}
}

func TestParseLineSimple(t *testing.T) {
	m, ok := parseLine("join #test")
	if !ok {
		t.Fatal("expected parse success")
	}
	if m.command != "JOIN" {
		t.Errorf("command = %q, want JOIN", m.command)
	}
	if len(m.params) != 1 || m.params[0] != "#test" {
		t.Errorf("params = %#v", m.params)
	}
}

func TestParseLineTrailing(t *testing.T) {
	m, ok := parseLine("PRIVMSG #test :hello   there")
	if !ok {
		t.Fatal("expected parse success")
	}
	if len(m.params) != 2 {
		t.Fatalf("params = %#v, want 2 entries", m.params)
	}
	if m.params[0] != "#test" {
		t.Errorf("params[0] = %q", m.params[0])
	}
	// Runs of spaces within the trailing parameter collapse because the
	// tokenizer already split on them; the trailing parameter is rejoined
	// with single spaces.
	if m.params[1] != "hello there" {
		t.Errorf("params[1] = %q", m.params[1])
	}
}

func TestParseLineEmpty(t *testing.T) {
	_, ok := parseLine("")
	if ok {
		t.Fatal("empty line should not parse")
	}
}
