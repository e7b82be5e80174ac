package main

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

var serverStartTime = time.Now()

// cmdWho implements WHO for a channel target, per §6 and grounded on
// horgh-catbox/local_user.go's whoCommand.
func cmdWho(s *Server, u *User, params []string) {
	if len(params) < 1 {
		s.sendNumeric(u, replyEndOfWho, "*", "End of /WHO list")
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

	members := make([]*User, 0, len(c.members))
	for _, m := range c.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].nick < members[j].nick })

	for _, m := range members {
		flags := "H"
		if c.isOperator(m) {
			flags += "@"
		}
		s.sendNumeric(u, replyWhoReply, c.name, m.username, m.hostname, s.config.ServerName, m.nick, flags, "0 "+m.realname)
	}
	s.sendNumeric(u, replyEndOfWho, c.name, "End of /WHO list")
}

// cmdWhois implements WHOIS per §6, grounded on horgh-catbox/
// local_user.go's whoisCommand - in particular using now-lastActivity for
// idle time rather than connection start time (spec.md §9).
func cmdWhois(s *Server, u *User, params []string) {
	if !needParams(s, u, "WHOIS", params, 1) {
		return
	}

	target, ok := s.findUserByNick(params[0])
	if !ok {
		s.sendNumeric(u, errNoSuchNick, params[0], "No such nick/channel")
		s.sendNumeric(u, replyEndOfWhois, params[0], "End of /WHOIS list")
		return
	}

	s.sendNumeric(u, replyWhoisUser, target.nick, target.username, target.hostname, "*", target.realname)
	s.sendNumeric(u, replyWhoisServer, target.nick, s.config.ServerName, "Server info")

	var channels []string
	for _, c := range target.channels {
		if c.secret || c.private {
			continue
		}
		if c.isOperator(target) {
			channels = append(channels, "@"+c.name)
		} else {
			channels = append(channels, c.name)
		}
	}
	if len(channels) > 0 {
		sort.Strings(channels)
		s.sendNumeric(u, replyWhoisChannels, target.nick, strings.Join(channels, " "))
	}

	s.sendNumeric(u, replyWhoisIdle, target.nick,
		strconv.FormatInt(target.idleSeconds(), 10),
		strconv.FormatInt(target.connectTime.Unix(), 10),
		"seconds idle, signon time")
	s.sendNumeric(u, replyEndOfWhois, target.nick, "End of /WHOIS list")
}

// cmdList implements LIST per §6.
func cmdList(s *Server, u *User, params []string) {
	s.sendNumeric(u, replyListStart, "Channel", "Users Name")

	var names []string
	for key := range s.channels {
		names = append(names, key)
	}
	sort.Strings(names)

	for _, key := range names {
		c := s.channels[key]
		if c.secret || c.private {
			continue
		}
		s.sendNumeric(u, replyList, c.name, strconv.Itoa(len(c.members)), c.topic)
	}
	s.sendNumeric(u, replyListEnd, "End of /LIST")
}

// cmdNames implements NAMES per §6, reusing the same reply sequence JOIN
// sends.
func cmdNames(s *Server, u *User, params []string) {
	if len(params) < 1 {
		s.sendNumeric(u, replyEndOfNames, "*", "End of /NAMES list")
		return
	}
	for _, name := range strings.Split(params[0], ",") {
		c, ok := s.findChannel(normalizeChannelTarget(name))
		if !ok {
			continue
		}
		s.sendNumeric(u, replyNamReply, "=", c.name, c.namesReply())
		s.sendNumeric(u, replyEndOfNames, c.name, "End of /NAMES list")
	}
}

// cmdMotd sends the configured message of the day, or 422 if it is empty.
func cmdMotd(s *Server, u *User, params []string) {
	if len(s.config.MOTD) == 0 {
		s.sendNumeric(u, errNoMotd, "MOTD File is missing")
		return
	}
	s.sendNumeric(u, replyMotdStart, "- "+s.config.ServerName+" Message of the day -")
	for _, line := range s.config.MOTD {
		s.sendNumeric(u, replyMotd, "- "+line)
	}
	s.sendNumeric(u, replyEndOfMotd, "End of /MOTD command")
}

// cmdVersion, cmdTime, cmdInfo, cmdAdmin, cmdStats are the static server
// info verbs supplemented in SPEC_FULL.md §3.
func cmdVersion(s *Server, u *User, params []string) {
	s.sendNumeric(u, replyVersion, s.config.Version, s.config.ServerName, "")
}

func cmdTime(s *Server, u *User, params []string) {
	s.sendNumeric(u, replyTime, s.config.ServerName, time.Now().Format(time.RFC1123))
}

func cmdInfo(s *Server, u *User, params []string) {
	s.sendNumeric(u, replyInfo, s.config.ServerName+" "+s.config.Version)
	s.sendNumeric(u, replyEndOfInfo, "End of /INFO list")
}

func cmdAdmin(s *Server, u *User, params []string) {
	s.sendNumeric(u, replyAdminMe, s.config.ServerName, "Administrative info about "+s.config.ServerName)
	s.sendNumeric(u, replyAdminLoc1, "Location unspecified")
	s.sendNumeric(u, replyAdminLoc2, "Location unspecified")
	s.sendNumeric(u, replyAdminEmail, "No contact address configured")
}

func cmdStats(s *Server, u *User, params []string) {
	query := "*"
	if len(params) > 0 {
		query = params[0]
	}
	if query == "u" {
		s.sendNumeric(u, replyStatsUptime, "Server Up "+formatDuration(time.Since(serverStartTime)))
	}
	s.sendNumeric(u, replyEndOfStats, query, "End of /STATS report")
}
