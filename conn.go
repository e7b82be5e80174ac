package main

import (
	"io"
	"net"
	"sync/atomic"
)

// clientConn wraps one accepted TCP connection. Its readLoop and writeLoop
// goroutines are the only code that touches the raw socket; everything
// else communicates with the owning Server through channels, per the
// single-writer model in spec.md §5.
type clientConn struct {
	conn     net.Conn
	userID   uint64
	hostname string

	writeChan chan string
	closeChan chan struct{}

	framer lineFramer
}

func newClientConn(conn net.Conn, hostname string) *clientConn {
	return &clientConn{
		conn:      conn,
		hostname:  hostname,
		writeChan: make(chan string, 512),
		closeChan: make(chan struct{}),
	}
}

func (c *clientConn) close() {
	select {
	case <-c.closeChan:
	default:
		close(c.closeChan)
	}
	_ = c.conn.Close()
}

// readLoop reads raw bytes, frames them into lines, and forwards each line
// to the server's mailbox as a clientMessage. It never touches shared
// server state directly (§4.A/§5).
func (s *Server) readLoop(c *clientConn) {
	defer s.wg.Done()

	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			lines, ferr := c.framer.feed(buf[:n])
			for _, line := range lines {
				select {
				case s.messageChan <- clientMessage{userID: c.userID, line: line}:
				case <-c.closeChan:
					return
				}
			}
			if ferr != nil {
				select {
				case s.deadConnChan <- deadConn{userID: c.userID, reason: "Excess flood"}:
				case <-c.closeChan:
				case <-s.shutdownChan:
				}
				return
			}
		}
		if err != nil {
			reason := "Client disconnected"
			if err != io.EOF {
				reason = "Read error"
			}
			select {
			case s.deadConnChan <- deadConn{userID: c.userID, reason: reason}:
			case <-c.closeChan:
			case <-s.shutdownChan:
			}
			return
		}
	}
}

// writeLoop delivers already-encoded frames to the socket in the order
// they were enqueued (§4.I ordering guarantee) until the connection is
// closed or the server shuts down.
func (s *Server) writeLoop(c *clientConn) {
	defer s.wg.Done()

	for {
		select {
		case line, ok := <-c.writeChan:
			if !ok {
				return
			}
			if _, err := io.WriteString(c.conn, line); err != nil {
				return
			}
		case <-c.closeChan:
			return
		case <-s.shutdownChan:
			return
		}
	}
}

// acceptLoop accepts incoming connections until the listener is closed at
// shutdown, handing each new clientConn to the event loop over
// newConnChan.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdownChan:
				return
			default:
			}
			s.log.WithError(err).Warn("accept error")
			return
		}

		if s.clientCount() >= s.config.MaxClients {
			_, _ = io.WriteString(conn, "ERROR :Server is full\r\n")
			_ = conn.Close()
			continue
		}

		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetKeepAlive(true)
		}

		host := conn.RemoteAddr().String()
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}

		cc := newClientConn(conn, host)
		cc.userID = uint64(atomic.AddInt64(&s.nextConnID, 1))

		s.wg.Add(2)
		go s.readLoop(cc)
		go s.writeLoop(cc)

		select {
		case s.newConnChan <- cc:
		case <-s.shutdownChan:
			return
		}
	}
}

// clientCount reads the atomic connection counter the event loop maintains
// (see Server.run), so the admission check in acceptLoop never touches the
// user map directly from another goroutine.
func (s *Server) clientCount() int {
	return int(atomic.LoadInt64(&s.connCount))
}
