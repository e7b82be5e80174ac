package main

// Numeric reply codes used by this server. Names follow RFC 1459/2812
// convention.
const (
	replyWelcome  = "001"
	replyYourHost = "002"
	replyCreated  = "003"
	replyMyInfo   = "004"

	replyAway          = "301"
	replyWhoisUser     = "311"
	replyWhoisServer   = "312"
	replyWhoisOperator = "313"
	replyEndOfWho      = "315"
	replyWhoisIdle     = "317"
	replyEndOfWhois    = "318"
	replyWhoisChannels = "319"

	replyListStart  = "321"
	replyList       = "322"
	replyListEnd    = "323"
	replyChannelMode = "324"
	replyNoTopic    = "331"
	replyTopic      = "332"
	replyInviting   = "341"
	replyWhoReply   = "352"
	replyNamReply   = "353"
	replyEndOfNames = "366"

	replyMotdStart  = "375"
	replyMotd       = "372"
	replyEndOfMotd  = "376"

	replyAdminMe    = "256"
	replyAdminLoc1  = "257"
	replyAdminLoc2  = "258"
	replyAdminEmail = "259"
	replyVersion    = "351"
	replyInfo       = "371"
	replyEndOfInfo  = "374"
	replyTime       = "391"
	replyStatsUptime = "242"
	replyEndOfStats = "219"

	errNoSuchNick       = "401"
	errNoSuchChannel    = "403"
	errCannotSendToChan = "404"
	errTooManyChannels  = "405"
	errNoRecipient      = "411"
	errNoTextToSend     = "412"
	errUnknownCommand   = "421"
	errNoMotd           = "422"
	errErroneousNick    = "432"
	errNicknameInUse    = "433"
	errUserNotInChannel = "441"
	errNotOnChannel     = "442"
	errUserOnChannel    = "443"
	errNotRegistered    = "451"
	errNeedMoreParams   = "461"
	errAlreadyRegistred = "462"
	errPasswdMismatch   = "464"
	errChannelIsFull    = "471"
	errUnknownMode      = "472"
	errInviteOnlyChan   = "473"
	errBannedFromChan   = "474"
	errBadChannelKey    = "475"
	errChanOPrivsNeeded = "482"
	errUsersDontMatch   = "502"
)
