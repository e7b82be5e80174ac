package main

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// testServer starts a Server on an OS-assigned loopback port for use by
// scenario tests, and arranges for it to shut down when the test ends.
func testServer(t *testing.T, password string) (*Server, string) {
	t.Helper()

	config, err := newConfig(1, password)
	require.NoError(t, err)
	config.WakeupTime = 20 * time.Millisecond
	config.PingTime = time.Hour
	config.DeadTime = time.Hour

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s := newServer(config, logger.WithField("test", true))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s.listener = ln

	go s.run()
	t.Cleanup(s.requestShutdown)

	return s, ln.Addr().String()
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	return &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err)
}

func (c *testClient) expect(contains string) string {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		line, err := c.r.ReadString('\n')
		require.NoError(c.t, err, "waiting for line containing %q", contains)
		if contains == "" || strings.Contains(line, contains) {
			return line
		}
	}
}

func register(t *testing.T, addr, password, nick string) *testClient {
	t.Helper()
	c := dial(t, addr)
	c.send("PASS " + password)
	c.send("NICK " + nick)
	c.send("USER " + nick + " 0 * :Test User")
	c.expect(" 001 ")
	c.expect(" 376 ")
	return c
}

func TestScenarioPasswordReject(t *testing.T) {
	_, addr := testServer(t, "secret")

	c := dial(t, addr)
	c.send("PASS wrong")
	c.send("NICK alice")
	c.send("USER a 0 * :Alice")

	line := c.expect(" 464 ")
	require.Contains(t, line, "Password incorrect")
}

func TestScenarioRegistration(t *testing.T) {
	_, addr := testServer(t, "secret")
	register(t, addr, "secret", "alice")
}

func TestScenarioJoinAndBroadcast(t *testing.T) {
	_, addr := testServer(t, "secret")

	alice := register(t, addr, "secret", "alice")
	alice.send("JOIN #x")
	alice.expect("JOIN :#x")
	alice.expect(" 353 ")

	bob := register(t, addr, "secret", "bob")
	bob.send("JOIN #x")
	bob.expect("JOIN :#x")
	namesLine := bob.expect(" 353 ")
	require.Contains(t, namesLine, "@alice")

	aliceJoinNotice := alice.expect("JOIN :#x")
	require.Contains(t, aliceJoinNotice, "bob")
}

func TestScenarioPrivmsgRouting(t *testing.T) {
	_, addr := testServer(t, "secret")

	alice := register(t, addr, "secret", "alice")
	alice.send("JOIN #x")
	alice.expect(" 366 ")

	bob := register(t, addr, "secret", "bob")
	bob.send("JOIN #x")
	bob.expect(" 366 ")
	alice.expect("JOIN :#x")

	alice.send("PRIVMSG #x :hi")
	msg := bob.expect("PRIVMSG #x :hi")
	require.Contains(t, msg, "alice!")

	alice.send("PRIVMSG bob :ping")
	direct := bob.expect("PRIVMSG bob :ping")
	require.Contains(t, direct, "alice!")
}

func TestScenarioModeAndKick(t *testing.T) {
	_, addr := testServer(t, "secret")

	alice := register(t, addr, "secret", "alice")
	alice.send("JOIN #x")
	alice.expect(" 366 ")

	bob := register(t, addr, "secret", "bob")
	bob.send("JOIN #x")
	bob.expect(" 366 ")
	alice.expect("JOIN :#x")

	alice.send("MODE #x +k s3cr3t")
	modeMsg := bob.expect("MODE #x +k s3cr3t")
	require.Contains(t, modeMsg, "alice!")

	eve := register(t, addr, "secret", "eve")
	eve.send("JOIN #x")
	eve.expect(" 475 ")

	alice.send("KICK #x bob :bye")
	kickMsg := bob.expect("KICK #x bob :bye")
	require.Contains(t, kickMsg, "alice!")
}
