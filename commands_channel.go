package main

import (
	"strconv"
	"strings"
)

// cmdJoin implements JOIN per §4.D, applying the checks in the exact order
// spec.md pins rather than the order original_source/Channel.cpp's
// internal canJoin uses.
func cmdJoin(s *Server, u *User, params []string) {
	if !needParams(s, u, "JOIN", params, 1) {
		return
	}

	targets := strings.Split(params[0], ",")
	var keys []string
	if len(params) > 1 {
		keys = strings.Split(params[1], ",")
	}

	for i, target := range targets {
		key := ""
		if i < len(keys) {
			key = keys[i]
		}
		joinOne(s, u, normalizeChannelTarget(target), key)
	}
}

func joinOne(s *Server, u *User, name, key string) {
	existing, exists := s.findChannel(name)

	if exists && u.onChannel(existing) {
		return
	}

	if len(u.channels) >= maxChannelsPerUser {
		s.sendNumeric(u, errTooManyChannels, name, "You have joined too many channels")
		return
	}

	if !isValidChannel(name) {
		s.sendNumeric(u, errNoSuchChannel, name, "No such channel")
		return
	}

	if exists {
		if existing.isBanned(u) {
			s.sendNumeric(u, errBannedFromChan, name, "Cannot join channel (+b)")
			return
		}
		if ok, numeric := existing.canJoin(u, key); !ok {
			switch numeric {
			case errChannelIsFull:
				s.sendNumeric(u, errChannelIsFull, name, "Cannot join channel (+l)")
			case errInviteOnlyChan:
				s.sendNumeric(u, errInviteOnlyChan, name, "Cannot join channel (+i)")
			case errBadChannelKey:
				s.sendNumeric(u, errBadChannelKey, name, "Cannot join channel (+k)")
			}
			return
		}
	}

	c := s.getOrCreateChannel(name)
	s.joinChannel(u, c)

	s.broadcastChannelRaw(c, nil, s.reply.commandTrailing(u.prefix(), "JOIN", c.name))

	if c.topic == "" {
		s.sendNumeric(u, replyNoTopic, c.name, "No topic is set")
	} else {
		s.sendNumeric(u, replyTopic, c.name, c.topic)
	}

	s.sendNumeric(u, replyNamReply, "=", c.name, c.namesReply())
	s.sendNumeric(u, replyEndOfNames, c.name, "End of /NAMES list")
}

// cmdPart implements PART per §4.E.
func cmdPart(s *Server, u *User, params []string) {
	if !needParams(s, u, "PART", params, 1) {
		return
	}

	reason := ""
	if len(params) > 1 {
		reason = params[1]
	}

	for _, name := range strings.Split(params[0], ",") {
		name = normalizeChannelTarget(name)
		c, ok := s.findChannel(name)
		if !ok || !u.onChannel(c) {
			s.sendNumeric(u, errNotOnChannel, name, "You're not on that channel")
			continue
		}

		s.broadcastChannel(c, nil, s.reply.command(u.prefix(), "PART", c.name, reason))
		s.partChannel(u, c)
	}
}

// cmdPrivmsg and cmdNotice implement §4.F. They share routing logic;
// NOTICE never generates error numerics.
func cmdPrivmsg(s *Server, u *User, params []string) { relayMessage(s, u, params, "PRIVMSG", true) }
func cmdNotice(s *Server, u *User, params []string)  { relayMessage(s, u, params, "NOTICE", false) }

func relayMessage(s *Server, u *User, params []string, verb string, reportErrors bool) {
	if len(params) < 1 {
		if reportErrors {
			s.sendNumeric(u, errNoRecipient, "No recipient given ("+verb+")")
		}
		return
	}
	if len(params) < 2 {
		if reportErrors {
			s.sendNumeric(u, errNoTextToSend, "No text to send")
		}
		return
	}

	text := params[1]

	for _, target := range strings.Split(params[0], ",") {
		if len(target) > 0 && (target[0] == '#' || target[0] == '&') {
			c, ok := s.findChannel(target)
			if !ok {
				if reportErrors {
					s.sendNumeric(u, errNoSuchChannel, target, "No such channel")
				}
				continue
			}
			if !c.canSpeak(u) {
				if reportErrors {
					s.sendNumeric(u, errCannotSendToChan, target, "Cannot send to channel")
				}
				continue
			}
			s.broadcastChannelRaw(c, u, s.reply.commandTrailing(u.prefix(), verb, c.name, text))
			continue
		}

		target2, ok := s.findUserByNick(target)
		if !ok {
			if reportErrors {
				s.sendNumeric(u, errNoSuchNick, target, "No such nick/channel")
			}
			continue
		}
		s.sendRaw(target2, s.reply.commandTrailing(u.prefix(), verb, target2.nick, text))
	}
}

// cmdKick implements KICK per §4.H.
func cmdKick(s *Server, u *User, params []string) {
	if !needParams(s, u, "KICK", params, 2) {
		return
	}

	name := normalizeChannelTarget(params[0])
	reason := u.nick
	if len(params) > 2 {
		reason = params[2]
	}

	c, ok := s.findChannel(name)
	if !ok {
		s.sendNumeric(u, errNoSuchChannel, name, "No such channel")
		return
	}
	if !u.onChannel(c) {
		s.sendNumeric(u, errNotOnChannel, name, "You're not on that channel")
		return
	}
	if !c.isOperator(u) {
		s.sendNumeric(u, errChanOPrivsNeeded, name, "You're not channel operator")
		return
	}

	for _, victimNick := range strings.Split(params[1], ",") {
		victim, ok := s.findUserByNick(victimNick)
		if !ok || !victim.onChannel(c) {
			s.sendNumeric(u, errUserNotInChannel, victimNick, name, "They aren't on that channel")
			continue
		}

		s.broadcastChannelRaw(c, nil, s.reply.commandTrailing(u.prefix(), "KICK", c.name, victim.nick, reason))
		s.partChannel(victim, c)
	}
}

// cmdInvite implements INVITE per §4.H.
func cmdInvite(s *Server, u *User, params []string) {
	if !needParams(s, u, "INVITE", params, 2) {
		return
	}

	nick := params[0]
	name := normalizeChannelTarget(params[1])

	c, ok := s.findChannel(name)
	if !ok {
		s.sendNumeric(u, errNoSuchChannel, name, "No such channel")
		return
	}
	if !u.onChannel(c) {
		s.sendNumeric(u, errNotOnChannel, name, "You're not on that channel")
		return
	}
	if c.inviteOnly && !c.isOperator(u) {
		s.sendNumeric(u, errChanOPrivsNeeded, name, "You're not channel operator")
		return
	}

	target, ok := s.findUserByNick(nick)
	if !ok {
		s.sendNumeric(u, errNoSuchNick, nick, "No such nick/channel")
		return
	}
	if target.onChannel(c) {
		s.sendNumeric(u, errUserOnChannel, target.nick, name, "is already on channel")
		return
	}

	c.invited[target.id] = struct{}{}
	s.sendNumeric(u, replyInviting, name, target.nick)
	s.send(target, s.reply.command(u.prefix(), "INVITE", target.nick, c.name))
}

// cmdTopic implements TOPIC per §4.H.
func cmdTopic(s *Server, u *User, params []string) {
	if !needParams(s, u, "TOPIC", params, 1) {
		return
	}

	name := normalizeChannelTarget(params[0])
	c, ok := s.findChannel(name)
	if !ok {
		s.sendNumeric(u, errNoSuchChannel, name, "No such channel")
		return
	}
	if !u.onChannel(c) {
		s.sendNumeric(u, errNotOnChannel, name, "You're not on that channel")
		return
	}

	if len(params) == 1 {
		if c.topic == "" {
			s.sendNumeric(u, replyNoTopic, c.name, "No topic is set")
		} else {
			s.sendNumeric(u, replyTopic, c.name, c.topic)
		}
		return
	}

	if c.topicRestricted && !c.isOperator(u) {
		s.sendNumeric(u, errChanOPrivsNeeded, name, "You're not channel operator")
		return
	}

	c.setTopic(params[1], u.prefix())
	s.broadcastChannel(c, nil, s.reply.command(u.prefix(), "TOPIC", c.name, c.topic))
}

// cmdMode implements channel MODE per §4.G. User-mode-on-self and
// user-mode-on-other targets are handled here too, per the spec's
// behavior: accepted-but-unstored for self, 502 for someone else.
func cmdMode(s *Server, u *User, params []string) {
	if !needParams(s, u, "MODE", params, 1) {
		return
	}

	target := params[0]
	if len(target) == 0 || (target[0] != '#' && target[0] != '&') {
		modeUser(s, u, target, params[1:])
		return
	}

	name := normalizeChannelTarget(target)
	c, ok := s.findChannel(name)
	if !ok {
		s.sendNumeric(u, errNoSuchChannel, name, "No such channel")
		return
	}

	if len(params) < 2 {
		letters, modeParams := c.modeString()
		allParams := append([]string{c.name, letters}, modeParams...)
		s.sendNumeric(u, replyChannelMode, allParams...)
		return
	}

	if !c.isOperator(u) {
		s.sendNumeric(u, errChanOPrivsNeeded, name, "You're not channel operator")
		return
	}

	applyChannelModes(s, u, c, params[1], params[2:])
}

func modeUser(s *Server, u *User, nick string, params []string) {
	if canonicalizeNick(nick) != canonicalizeNick(u.nick) {
		s.sendNumeric(u, errUsersDontMatch, "Cannot change mode for other users")
		return
	}
	// User modes are accepted but not stored (§4.G).
}

// applyChannelModes processes the mode letter string left to right,
// building the filtered list of changes that actually took effect so only
// those are broadcast, per spec.md §4.G (not the raw input, which
// original_source/ServerCommands.cpp's _handleMode echoes verbatim even
// when a change had no effect).
func applyChannelModes(s *Server, u *User, c *Channel, modes string, extraParams []string) {
	adding := true
	paramIdx := 0
	nextParam := func() (string, bool) {
		if paramIdx >= len(extraParams) {
			return "", false
		}
		p := extraParams[paramIdx]
		paramIdx++
		return p, true
	}

	var appliedLetters strings.Builder
	var appliedParams []string
	sign := byte('+')
	lastEmittedSign := byte(0)

	emit := func(s2 byte, letter byte, param string) {
		if s2 != lastEmittedSign {
			appliedLetters.WriteByte(s2)
			lastEmittedSign = s2
		}
		appliedLetters.WriteByte(letter)
		if param != "" {
			appliedParams = append(appliedParams, param)
		}
	}

	for i := 0; i < len(modes); i++ {
		ch := modes[i]
		switch ch {
		case '+':
			adding = true
			sign = '+'
			continue
		case '-':
			adding = false
			sign = '-'
			continue
		}

		switch ch {
		case 'i':
			if c.inviteOnly != adding {
				c.inviteOnly = adding
				emit(sign, ch, "")
			}
		case 't':
			if c.topicRestricted != adding {
				c.topicRestricted = adding
				emit(sign, ch, "")
			}
		case 'm':
			if c.moderated != adding {
				c.moderated = adding
				emit(sign, ch, "")
			}
		case 'n':
			if c.noExternal != adding {
				c.noExternal = adding
				emit(sign, ch, "")
			}
		case 's':
			if c.secret != adding {
				c.secret = adding
				emit(sign, ch, "")
			}
		case 'p':
			if c.private != adding {
				c.private = adding
				emit(sign, ch, "")
			}
		case 'k':
			if adding {
				key, ok := nextParam()
				if !ok || !isValidKey(key) {
					continue
				}
				c.setKey(key)
				emit(sign, ch, c.key)
			} else {
				if !c.hasKey {
					continue
				}
				c.removeKey()
				emit(sign, ch, "")
			}
		case 'l':
			if adding {
				limStr, ok := nextParam()
				if !ok {
					continue
				}
				lim, err := strconv.Atoi(limStr)
				if err != nil || lim <= 0 {
					continue
				}
				c.setUserLimit(lim)
				emit(sign, ch, strconv.Itoa(c.userLimit))
			} else {
				if c.userLimit == 0 {
					continue
				}
				c.setUserLimit(0)
				emit(sign, ch, "")
			}
		case 'o':
			nick, ok := nextParam()
			if !ok {
				continue
			}
			target, ok := s.findUserByNick(nick)
			if !ok || !target.onChannel(c) {
				continue
			}
			if adding {
				if c.isOperator(target) {
					continue
				}
				c.operators[target.id] = struct{}{}
			} else {
				if !c.isOperator(target) {
					continue
				}
				delete(c.operators, target.id)
			}
			emit(sign, ch, target.nick)
		default:
			s.sendNumeric(u, errUnknownMode, string(ch), "is unknown mode char to me")
		}
	}

	if appliedLetters.Len() == 0 {
		return
	}

	changeParams := append([]string{c.name, appliedLetters.String()}, appliedParams...)
	s.broadcastChannel(c, nil, s.reply.command(u.prefix(), "MODE", changeParams...))
}
