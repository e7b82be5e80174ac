package main

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Channel is a named broadcast group. A Channel exists in the registry
// from its first JOIN until its membership set becomes empty.
type Channel struct {
	name          string
	canonicalName string

	members   map[uint64]*User
	operators map[uint64]struct{}
	invited   map[uint64]struct{}
	banned    map[string]struct{}

	topic      string
	topicSetBy string
	topicSetAt time.Time

	key    string
	hasKey bool

	userLimit int

	inviteOnly      bool
	topicRestricted bool
	moderated       bool
	noExternal      bool
	secret          bool
	private         bool

	createdAt time.Time
}

func newChannel(name string) *Channel {
	return &Channel{
		name:            name,
		canonicalName:   canonicalizeChannel(name),
		members:         make(map[uint64]*User),
		operators:       make(map[uint64]struct{}),
		invited:         make(map[uint64]struct{}),
		banned:          make(map[string]struct{}),
		topicRestricted: true,
		noExternal:      true,
		createdAt:       time.Now(),
	}
}

func (c *Channel) isEmpty() bool {
	return len(c.members) == 0
}

func (c *Channel) isOperator(u *User) bool {
	_, ok := c.operators[u.id]
	return ok
}

func (c *Channel) isInvited(u *User) bool {
	_, ok := c.invited[u.id]
	return ok
}

func (c *Channel) isBanned(u *User) bool {
	_, ok := c.banned[canonicalizeNick(u.nick)]
	return ok
}

// addMember inserts u into the membership set. If this is the first member,
// it is automatically granted operator status (spec.md §3/§4.D).
func (c *Channel) addMember(u *User) {
	c.members[u.id] = u
	delete(c.invited, u.id)
	if len(c.members) == 1 {
		c.operators[u.id] = struct{}{}
	}
}

// removeMember removes u from membership, operators, and invites. If the
// operator set becomes empty while members remain, one remaining member is
// promoted to operator (spec.md §3, §9 - confirmed by the auto-promotion
// behavior in the original Channel::removeClient).
func (c *Channel) removeMember(u *User) {
	delete(c.members, u.id)
	delete(c.operators, u.id)
	delete(c.invited, u.id)

	if len(c.operators) == 0 && len(c.members) > 0 {
		for id, m := range c.members {
			c.operators[id] = struct{}{}
			_ = m
			break
		}
	}
}

// canJoin evaluates the JOIN checks that depend only on Channel state, in
// the order spec.md §4.D pins: limit, invite-only, key. The caller is
// responsible for the checks that depend on User/Registry state (already
// a member, too many channels, invalid name, banned) which precede these.
func (c *Channel) canJoin(u *User, key string) (ok bool, numeric string) {
	if c.userLimit > 0 && len(c.members) >= c.userLimit {
		return false, errChannelIsFull
	}
	if c.inviteOnly && !c.isInvited(u) {
		return false, errInviteOnlyChan
	}
	if c.hasKey && key != c.key {
		return false, errBadChannelKey
	}
	return true, ""
}

// canSpeak reports whether u may PRIVMSG/NOTICE this channel.
func (c *Channel) canSpeak(u *User) bool {
	isMember := false
	if _, ok := c.members[u.id]; ok {
		isMember = true
	}
	if c.isBanned(u) {
		return false
	}
	if c.noExternal && !isMember {
		return false
	}
	if c.moderated && !c.isOperator(u) {
		return false
	}
	return true
}

func (c *Channel) setTopic(topic, setBy string) {
	if len(topic) > maxTopicLength {
		topic = topic[:maxTopicLength]
	}
	c.topic = topic
	c.topicSetBy = setBy
	c.topicSetAt = time.Now()
}

func (c *Channel) setKey(key string) {
	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}
	c.key = key
	c.hasKey = key != ""
}

func (c *Channel) removeKey() {
	c.key = ""
	c.hasKey = false
}

// setUserLimit clamps limit to the boundary spec.md §8 requires: a
// non-positive value unsets the limit, and anything above maxUserLimit is
// clamped to it rather than rejected.
func (c *Channel) setUserLimit(limit int) {
	if limit <= 0 {
		c.userLimit = 0
		return
	}
	if limit > maxUserLimit {
		limit = maxUserLimit
	}
	c.userLimit = limit
}

// modeString renders the channel's current mode string for RPL_CHANNELMODEIS
// (324): a leading +, then simple flag letters in a fixed order, then k and
// l if set, with their parameters appended afterward in that order.
func (c *Channel) modeString() (letters string, params []string) {
	var b strings.Builder
	b.WriteByte('+')
	if c.inviteOnly {
		b.WriteByte('i')
	}
	if c.topicRestricted {
		b.WriteByte('t')
	}
	if c.moderated {
		b.WriteByte('m')
	}
	if c.noExternal {
		b.WriteByte('n')
	}
	if c.secret {
		b.WriteByte('s')
	}
	if c.private {
		b.WriteByte('p')
	}
	if c.hasKey {
		b.WriteByte('k')
		params = append(params, c.key)
	}
	if c.userLimit > 0 {
		b.WriteByte('l')
		params = append(params, strconv.Itoa(c.userLimit))
	}
	return b.String(), params
}

// namesReply returns the space-separated nick list for RPL_NAMREPLY,
// operators prefixed with @, sorted for deterministic output.
func (c *Channel) namesReply() string {
	names := make([]string, 0, len(c.members))
	for id, m := range c.members {
		if _, op := c.operators[id]; op {
			names = append(names, "@"+m.nick)
		} else {
			names = append(names, m.nick)
		}
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}
