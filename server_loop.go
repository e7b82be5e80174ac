package main

import (
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// listen binds the listening socket. Bind/listen failures are fatal
// startup errors per spec.md §7.
func (s *Server) listen() error {
	addr := net.JoinHostPort("", strconv.Itoa(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.listener = ln
	return nil
}

// run is the server's single event loop goroutine. It is the only
// goroutine that ever mutates s.users/s.nicks/s.channels (§5).
func (s *Server) run() {
	s.wg.Add(2)
	go s.acceptLoop()
	go s.alarmLoop()

loop:
	for {
		// Drain newConnChan ahead of messageChan: select picks randomly among
		// ready cases, and a fast client's first line can otherwise reach
		// handleLine before its connection is registered.
		select {
		case cc := <-s.newConnChan:
			s.addUser(cc)
			continue loop
		default:
		}

		select {
		case cc := <-s.newConnChan:
			s.addUser(cc)

		case cm := <-s.messageChan:
			u, ok := s.users[cm.userID]
			if !ok {
				continue
			}
			s.handleLine(u, cm.line)

		case dc := <-s.deadConnChan:
			u, ok := s.users[dc.userID]
			if !ok {
				continue
			}
			s.removeUser(u, dc.reason)

		case <-s.alarmChan:
			s.maintenance()

		case <-s.shutdownChan:
			break loop
		}
	}

	s.shutdown()
}

// alarmLoop wakes the event loop roughly once per config.WakeupTime so it
// can run periodic maintenance (§4.J).
func (s *Server) alarmLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.WakeupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case s.alarmChan <- struct{}{}:
			default:
			}
		case <-s.shutdownChan:
			return
		}
	}
}

// maintenance reaps empty channels and enforces ping/idle timeouts.
func (s *Server) maintenance() {
	s.reapEmptyChannels()

	now := time.Now()
	var timedOut []*User
	for _, u := range s.users {
		idle := now.Sub(u.lastActivity)

		if !u.registered {
			if idle > s.config.DeadTime {
				timedOut = append(timedOut, u)
			}
			continue
		}

		if idle > s.config.DeadTime {
			timedOut = append(timedOut, u)
			continue
		}

		if idle >= s.config.PingTime && now.Sub(u.lastPing) >= s.config.PingTime {
			s.send(u, s.reply.command(s.config.ServerName, "PING", s.config.ServerName))
			u.lastPing = now
		}
	}

	for _, u := range timedOut {
		reason := "Ping timeout: " + formatDuration(s.config.DeadTime)
		s.removeUser(u, reason)
	}
}

// requestShutdown signals the event loop to begin graceful teardown.
func (s *Server) requestShutdown() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// shutdown implements §4.K: notify every connected client, close every
// socket, then close the listener.
func (s *Server) shutdown() {
	s.log.Info("shutting down")

	for _, u := range s.users {
		s.send(u, s.reply.command(s.config.ServerName, "ERROR", "Server shutting down"))
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}

	for _, u := range s.users {
		u.conn.close()
	}

	s.wg.Wait()
}
