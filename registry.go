package main

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/horgh/irc"
	"github.com/sirupsen/logrus"
)

// Server owns every piece of shared mutable state: the user and channel
// indices and the listening socket. All mutation happens on the goroutine
// running run() (§5 - single-threaded cooperative); every other goroutine
// (accept, per-connection read/write) only ever sends on a channel into
// that loop.
type Server struct {
	config *Config
	log    *logrus.Entry
	reply  *replyFormatter

	listener net.Listener

	users    map[uint64]*User
	nicks    map[string]*User
	channels map[string]*Channel

	// nextConnID is incremented by the accept goroutine (atomically, since
	// it runs concurrently with the event loop) to assign each connection a
	// stable id before the event loop ever sees it - this avoids a race
	// where a fast client's first message could reach readLoop before the
	// event loop finished registering the connection.
	nextConnID int64
	connCount  int64

	newConnChan  chan *clientConn
	messageChan  chan clientMessage
	deadConnChan chan deadConn
	alarmChan    chan struct{}
	shutdownChan chan struct{}

	wg sync.WaitGroup
}

type clientMessage struct {
	userID uint64
	line   string
}

type deadConn struct {
	userID uint64
	reason string
}

func newServer(config *Config, log *logrus.Entry) *Server {
	return &Server{
		config:   config,
		log:      log,
		reply:    &replyFormatter{serverName: config.ServerName, log: log},
		users:    make(map[uint64]*User),
		nicks:    make(map[string]*User),
		channels: make(map[string]*Channel),

		newConnChan:  make(chan *clientConn, 64),
		messageChan:  make(chan clientMessage, 256),
		deadConnChan: make(chan deadConn, 64),
		alarmChan:    make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
	}
}

// addUser registers a newly accepted connection (whose id was already
// assigned by acceptLoop) as a User and returns it.
func (s *Server) addUser(cc *clientConn) *User {
	u := newUser(cc.userID, cc, cc.hostname)
	s.users[u.id] = u
	atomic.AddInt64(&s.connCount, 1)
	s.log.WithFields(logrus.Fields{"id": u.id, "host": u.hostname}).Info("client connected")
	return u
}

// removeUser tears a User down: it is removed from every Channel it
// belonged to (broadcasting QUIT to anyone sharing a channel, each
// recipient exactly once) before it is removed from the nick/id indices,
// per the ownership rule in spec.md §3.
func (s *Server) removeUser(u *User, reason string) {
	if u.registered {
		notified := make(map[uint64]struct{})
		prefix := u.prefix()
		for _, c := range u.channels {
			for id, m := range c.members {
				if id == u.id {
					continue
				}
				if _, done := notified[id]; done {
					continue
				}
				notified[id] = struct{}{}
				s.send(m, s.reply.command(prefix, "QUIT", reason))
			}
			c.removeMember(u)
			if c.isEmpty() {
				delete(s.channels, c.canonicalName)
			}
		}
	}

	if u.nick != "" {
		if cur, ok := s.nicks[canonicalizeNick(u.nick)]; ok && cur.id == u.id {
			delete(s.nicks, canonicalizeNick(u.nick))
		}
	}
	delete(s.users, u.id)
	atomic.AddInt64(&s.connCount, -1)

	u.conn.close()
	s.log.WithFields(logrus.Fields{"id": u.id, "reason": reason}).Info("client disconnected")
}

func (s *Server) findUserByNick(nick string) (*User, bool) {
	u, ok := s.nicks[canonicalizeNick(nick)]
	return u, ok
}

func (s *Server) findChannel(name string) (*Channel, bool) {
	c, ok := s.channels[canonicalizeChannel(name)]
	return c, ok
}

func (s *Server) getOrCreateChannel(name string) *Channel {
	key := canonicalizeChannel(name)
	if c, ok := s.channels[key]; ok {
		return c
	}
	c := newChannel(name)
	s.channels[key] = c
	return c
}

// joinChannel adds u to c, maintaining the membership symmetry invariant
// (u.channels[c] exists iff c.members[u] exists).
func (s *Server) joinChannel(u *User, c *Channel) {
	c.addMember(u)
	u.channels[c.canonicalName] = c
}

// partChannel removes u from c and reaps c if it becomes empty.
func (s *Server) partChannel(u *User, c *Channel) {
	c.removeMember(u)
	delete(u.channels, c.canonicalName)
	if c.isEmpty() {
		delete(s.channels, c.canonicalName)
	}
}

// reapEmptyChannels removes any channel whose membership has become empty.
// Normal join/part/kick/quit paths reap immediately, so this is a backstop
// invoked on the maintenance tick to satisfy the invariant even if a future
// code path forgets to.
func (s *Server) reapEmptyChannels() {
	for key, c := range s.channels {
		if c.isEmpty() {
			delete(s.channels, key)
		}
	}
}

// broadcastChannel delivers m to every member of c. If exclude is non-nil,
// that member does not receive it. Broadcast is always driven from here,
// the registry - never from a Channel method - per spec.md §9.
func (s *Server) broadcastChannel(c *Channel, exclude *User, m irc.Message) {
	for id, member := range c.members {
		if exclude != nil && id == exclude.id {
			continue
		}
		s.send(member, m)
	}
}

// send enqueues m for delivery to u without blocking the event loop.
func (s *Server) send(u *User, m irc.Message) {
	encoded := s.reply.encode(m)
	if encoded == "" {
		return
	}
	s.sendRaw(u, encoded)
}

// sendRaw enqueues an already-encoded frame for delivery to u without
// blocking the event loop, same discipline as send.
func (s *Server) sendRaw(u *User, encoded string) {
	select {
	case u.conn.writeChan <- encoded:
	default:
		s.log.WithField("id", u.id).Warn("client send queue exceeded, dropping connection")
		go func() { s.deadConnChan <- deadConn{userID: u.id, reason: "Send queue exceeded"} }()
	}
}

// broadcastChannelRaw is broadcastChannel for an already-encoded frame.
func (s *Server) broadcastChannelRaw(c *Channel, exclude *User, encoded string) {
	for id, member := range c.members {
		if exclude != nil && id == exclude.id {
			continue
		}
		s.sendRaw(member, encoded)
	}
}

// sendNumeric is a convenience wrapper for the common case of a numeric
// reply addressed to u using its current nick (or * pre-registration).
func (s *Server) sendNumeric(u *User, code string, params ...string) {
	nick := u.nick
	if nick == "" {
		nick = "*"
	}
	s.send(u, s.reply.numeric(code, nick, params...))
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d.Seconds()))
}
