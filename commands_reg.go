package main

// cmdPass implements PASS per §4.C.
func cmdPass(s *Server, u *User, params []string) {
	if u.registered {
		s.sendNumeric(u, errAlreadyRegistred, "You may not reregister")
		return
	}
	if !needParams(s, u, "PASS", params, 1) {
		return
	}
	if params[0] != s.config.Password {
		s.sendNumeric(u, errPasswdMismatch, "Password incorrect")
		return
	}
	u.passwordAccepted = true
}

// cmdNick implements NICK per §4.C, including the notification fan-out
// when an already-registered user renames (grounded on
// eyedeekay-catbox/ircd.go's nickCommand, corrected to use 433 rather than
// its duplicate-432 bug for nickname-in-use).
func cmdNick(s *Server, u *User, params []string) {
	if !needParams(s, u, "NICK", params, 1) {
		return
	}
	nick := params[0]

	if !isValidNick(nick) {
		s.sendNumeric(u, errErroneousNick, nick, "Erroneous nickname")
		return
	}

	if existing, ok := s.findUserByNick(nick); ok && existing.id != u.id {
		s.sendNumeric(u, errNicknameInUse, nick, "Nickname is already in use")
		return
	}

	oldNick := u.nick
	wasRegistered := u.registered

	if oldNick != "" {
		delete(s.nicks, canonicalizeNick(oldNick))
	}
	s.nicks[canonicalizeNick(nick)] = u

	if wasRegistered {
		prefix := u.prefix()
		notified := map[uint64]struct{}{u.id: {}}
		for _, c := range u.channels {
			for id, m := range c.members {
				if _, done := notified[id]; done {
					continue
				}
				notified[id] = struct{}{}
				s.send(m, s.reply.command(prefix, "NICK", nick))
			}
		}
		s.send(u, s.reply.command(prefix, "NICK", nick))
	}

	u.nick = nick

	maybeRegister(s, u)
}

// cmdUser implements USER per §4.C.
func cmdUser(s *Server, u *User, params []string) {
	if u.registered {
		s.sendNumeric(u, errAlreadyRegistred, "You may not reregister")
		return
	}
	if !needParams(s, u, "USER", params, 4) {
		return
	}

	username := params[0]
	if !isValidUser(username) {
		s.sendNumeric(u, errNeedMoreParams, "USER", "Invalid username")
		return
	}

	realname := params[3]
	if len(realname) > 64 {
		realname = realname[:64]
	}

	u.username = username
	u.realname = realname

	maybeRegister(s, u)
}

// cmdCAP acknowledges an empty capability set, per spec.md's non-goal of
// no real capability negotiation.
func cmdCAP(s *Server, u *User, params []string) {
	s.send(u, s.reply.command(s.config.ServerName, "CAP", "*", "LS", ""))
}

// maybeRegister completes the registration handshake once PASS (if
// required)/NICK/USER have all succeeded, sending the welcome sequence and
// MOTD.
func maybeRegister(s *Server, u *User) {
	if !u.canRegister(s.config.Password) {
		return
	}
	u.registered = true
	u.lastPing = u.lastActivity

	sendWelcome(s, u)
	cmdMotd(s, u, nil)
}

func sendWelcome(s *Server, u *User) {
	s.sendNumeric(u, replyWelcome, "Welcome to the Internet Relay Network "+u.prefix())
	s.sendNumeric(u, replyYourHost, "Your host is "+s.config.ServerName+", running version "+s.config.Version)
	s.sendNumeric(u, replyCreated, "This server was created at startup")
	s.sendNumeric(u, replyMyInfo, s.config.ServerName, s.config.Version, "io", "itmnspkl")
}

// cmdQuit implements QUIT per §4.E. The actual cross-channel notification
// and teardown is done uniformly by Server.removeUser for every
// disconnect path.
func cmdQuit(s *Server, u *User, params []string) {
	reason := "Client quit"
	if len(params) > 0 {
		reason = params[0]
	}
	s.removeUser(u, reason)
}

// cmdPing answers a client-issued PING with a PONG carrying the same
// token, per RFC behavior referenced by spec.md's supported command list.
func cmdPing(s *Server, u *User, params []string) {
	if !needParams(s, u, "PING", params, 1) {
		return
	}
	s.send(u, s.reply.command(s.config.ServerName, "PONG", s.config.ServerName, params[0]))
}

// cmdPong is a no-op: it only ever resets idle bookkeeping, which
// handleLine already does for every command via u.touch().
func cmdPong(s *Server, u *User, params []string) {}
