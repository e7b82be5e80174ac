package main

// commandHandler implements one verb's behavior. params are the message's
// positional parameters, already split by parseLine (trailing parameter
// already joined).
type commandHandler func(s *Server, u *User, params []string)

// preRegCommands may be used before registration completes (§4.C).
// Everything else replies 451 and is ignored until registration finishes.
var preRegCommands = map[string]struct{}{
	"PASS": {},
	"NICK": {},
	"USER": {},
	"CAP":  {},
	"QUIT": {},
	"PING": {},
}

var commandTable = map[string]commandHandler{
	"PASS": cmdPass,
	"NICK": cmdNick,
	"USER": cmdUser,
	"CAP":  cmdCAP,
	"QUIT": cmdQuit,
	"PING": cmdPing,
	"PONG": cmdPong,

	"JOIN":    cmdJoin,
	"PART":    cmdPart,
	"PRIVMSG": cmdPrivmsg,
	"NOTICE":  cmdNotice,
	"KICK":    cmdKick,
	"INVITE":  cmdInvite,
	"TOPIC":   cmdTopic,
	"MODE":    cmdMode,

	"WHO":     cmdWho,
	"WHOIS":   cmdWhois,
	"LIST":    cmdList,
	"NAMES":   cmdNames,
	"MOTD":    cmdMotd,
	"VERSION": cmdVersion,
	"TIME":    cmdTime,
	"INFO":    cmdInfo,
	"ADMIN":   cmdAdmin,
	"STATS":   cmdStats,
}

// handleLine parses one line from u and routes it to a handler, enforcing
// the registration gate from §4.C.
func (s *Server) handleLine(u *User, line string) {
	u.touch()

	msg, ok := parseLine(line)
	if !ok {
		return
	}

	if !u.registered {
		if _, allowed := preRegCommands[msg.command]; !allowed {
			s.sendNumeric(u, errNotRegistered, "You have not registered")
			return
		}
	}

	handler, ok := commandTable[msg.command]
	if !ok {
		s.sendNumeric(u, errUnknownCommand, msg.command, "Unknown command")
		return
	}

	handler(s, u, msg.params)
}

// needParams replies 461 and returns false if params has fewer than n
// entries.
func needParams(s *Server, u *User, command string, params []string, n int) bool {
	if len(params) < n {
		s.sendNumeric(u, errNeedMoreParams, command, "Not enough parameters")
		return false
	}
	return true
}
