package main

import (
	"fmt"
	"time"
)

// User is a single connected client's registration and session state. A
// User exists from accept until its connection is closed; it is removed
// from every Channel it belongs to before it is removed from the
// registry's indices (see Server.removeUser).
type User struct {
	id uint64

	conn *clientConn

	hostname string

	nick     string
	username string
	realname string

	passwordAccepted bool
	registered       bool

	// channels is this user's membership set, keyed by the channel's
	// canonical name. A channel is in this set iff this user is in that
	// channel's members set (Server.joinChannel/partChannel maintain this
	// symmetrically).
	channels map[string]*Channel

	connectTime  time.Time
	lastActivity time.Time
	lastPing     time.Time

	gotCAP bool
}

func newUser(id uint64, conn *clientConn, hostname string) *User {
	now := time.Now()
	return &User{
		id:           id,
		conn:         conn,
		hostname:     hostname,
		channels:     make(map[string]*Channel),
		connectTime:  now,
		lastActivity: now,
		lastPing:     now,
	}
}

// prefix returns this user's nick!user@host source prefix for relayed
// messages.
func (u *User) prefix() string {
	return fmt.Sprintf("%s!%s@%s", u.nick, u.username, u.hostname)
}

// canRegister reports whether every piece of the registration handshake
// (§4.C) has completed.
func (u *User) canRegister(serverPassword string) bool {
	if u.registered {
		return false
	}
	if u.nick == "" || u.username == "" {
		return false
	}
	return serverPassword == "" || u.passwordAccepted
}

func (u *User) onChannel(c *Channel) bool {
	_, ok := u.channels[c.canonicalName]
	return ok
}

func (u *User) touch() {
	u.lastActivity = time.Now()
}

func (u *User) idleSeconds() int64 {
	return int64(time.Since(u.lastActivity).Seconds())
}
