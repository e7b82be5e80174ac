package main

import "testing"

func TestChannelAutoPromoteOperator(t *testing.T) {
	c := newChannel("#test")
	alice := newUser(1, nil, "host")
	alice.nick = "alice"
	bob := newUser(2, nil, "host")
	bob.nick = "bob"

	c.addMember(alice)
	c.addMember(bob)

	if !c.isOperator(alice) {
		t.Fatalf("first member should be auto-operator")
	}
	if c.isOperator(bob) {
		t.Fatalf("second member should not be operator")
	}

	c.removeMember(alice)

	if !c.isOperator(bob) {
		t.Fatalf("remaining member should be promoted to operator once the last operator leaves")
	}
}

func TestChannelUserLimitClamp(t *testing.T) {
	c := newChannel("#test")
	c.setUserLimit(1000)
	if c.userLimit != maxUserLimit {
		t.Errorf("userLimit = %d, want %d", c.userLimit, maxUserLimit)
	}

	c.setUserLimit(0)
	if c.userLimit != 0 {
		t.Errorf("userLimit = %d, want 0 after unset", c.userLimit)
	}
}

func TestChannelKeyTruncated(t *testing.T) {
	c := newChannel("#test")
	c.setKey("123456789012345678901234")
	if len(c.key) != maxKeyLength {
		t.Errorf("key length = %d, want %d", len(c.key), maxKeyLength)
	}
	if !c.hasKey {
		t.Errorf("hasKey = false, want true")
	}

	c.removeKey()
	if c.hasKey {
		t.Errorf("hasKey = true after removeKey, want false")
	}
}

func TestChannelTopicTruncated(t *testing.T) {
	c := newChannel("#test")
	long := make([]byte, maxTopicLength+50)
	for i := range long {
		long[i] = 'x'
	}
	c.setTopic(string(long), "alice!a@host")
	if len(c.topic) != maxTopicLength {
		t.Errorf("topic length = %d, want %d", len(c.topic), maxTopicLength)
	}
}

func TestChannelCanJoinOrder(t *testing.T) {
	c := newChannel("#test")
	alice := newUser(1, nil, "host")
	alice.nick = "alice"
	c.addMember(alice)

	bob := newUser(2, nil, "host")
	bob.nick = "bob"

	// All three conditions fail at once; lifting them one at a time shows
	// which check takes precedence: limit, then invite-only, then key.
	c.setUserLimit(1)
	c.inviteOnly = true
	c.setKey("secret")
	if ok, numeric := c.canJoin(bob, ""); ok || numeric != errChannelIsFull {
		t.Fatalf("canJoin = %v/%s, want false/%s", ok, numeric, errChannelIsFull)
	}

	c.setUserLimit(0)
	if ok, numeric := c.canJoin(bob, ""); ok || numeric != errInviteOnlyChan {
		t.Fatalf("canJoin = %v/%s, want false/%s", ok, numeric, errInviteOnlyChan)
	}

	c.inviteOnly = false
	if ok, numeric := c.canJoin(bob, "wrong"); ok || numeric != errBadChannelKey {
		t.Fatalf("canJoin = %v/%s, want false/%s", ok, numeric, errBadChannelKey)
	}

	if ok, _ := c.canJoin(bob, "secret"); !ok {
		t.Fatalf("canJoin with correct key should succeed")
	}
}

func TestChannelCanSpeakModerated(t *testing.T) {
	c := newChannel("#test")
	alice := newUser(1, nil, "host")
	alice.nick = "alice"
	c.addMember(alice)

	bob := newUser(2, nil, "host")
	bob.nick = "bob"
	c.addMember(bob)

	c.moderated = true
	if c.canSpeak(bob) {
		t.Fatalf("non-operator should not be able to speak in a moderated channel")
	}
	if !c.canSpeak(alice) {
		t.Fatalf("operator should be able to speak in a moderated channel")
	}
}
