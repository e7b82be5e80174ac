package main

import (
	"github.com/horgh/irc"
	"github.com/sirupsen/logrus"
)

// replyFormatter builds outbound frames as irc.Message values and encodes
// them with the vendored encoder (§4.I). It never blocks - delivery is
// via the connection's buffered write channel.
type replyFormatter struct {
	serverName string
	log        *logrus.Entry
}

// numeric builds a server-originated numeric reply. nick is the recipient's
// current nickname, or "*" if not yet registered.
func (r *replyFormatter) numeric(code, nick string, params ...string) irc.Message {
	allParams := append([]string{nick}, params...)
	return irc.Message{
		Prefix:  r.serverName,
		Command: code,
		Params:  allParams,
	}
}

// command builds a relayed command from a source prefix (nick!user@host,
// or the server name for server-originated commands).
func (r *replyFormatter) command(prefix, verb string, params ...string) irc.Message {
	return irc.Message{
		Prefix:  prefix,
		Command: verb,
		Params:  params,
	}
}

// encode renders m to its wire form, logging (but not failing on) a
// truncated encode - a best-effort delivery per §4.I.
func (r *replyFormatter) encode(m irc.Message) string {
	s, err := m.Encode()
	if err != nil && s == "" {
		r.log.WithError(err).WithField("command", m.Command).Warn("failed to encode outbound message")
		return ""
	}
	if err != nil {
		r.log.WithError(err).WithField("command", m.Command).Warn("truncated outbound message")
	}
	return s
}

// commandTrailing builds and encodes a relayed command whose last parameter
// is forced to the colon-prefixed trailing form, bypassing Encode's own
// optional-colon rule (a parameter gets ':' only if it has a space, starts
// with ':', or is empty - a bare channel name or a one-word message matches
// none of those, but JOIN's channel argument, PRIVMSG/NOTICE text and KICK's
// reason still need the colon form on the wire).
func (r *replyFormatter) commandTrailing(prefix, verb string, params ...string) string {
	line := ""
	if prefix != "" {
		line = ":" + prefix + " "
	}
	line += verb
	for i, p := range params {
		if i == len(params)-1 {
			line += " :" + p
		} else {
			line += " " + p
		}
	}
	line += "\r\n"

	if len(line) > irc.MaxLineLength {
		r.log.WithField("command", verb).Warn("truncated outbound message")
		line = line[:irc.MaxLineLength-2] + "\r\n"
	}
	return line
}
