package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires up configuration, logging, and the server's lifecycle, and
// returns the process exit code: 1 if argument parsing, configuration or
// binding the listener fails, otherwise 0 once the event loop has shut
// down. Errors after startup (such as a failed accept, which acceptLoop
// only logs) do not change the exit code.
func run(args []string) int {
	logger := logrus.New()
	log := logger.WithField("component", "server")

	port, password, err := parseArgs(args)
	if err != nil {
		log.WithError(err).Error("invalid arguments")
		return 1
	}

	config, err := newConfig(port, password)
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return 1
	}

	s := newServer(config, log)

	if err := s.listen(); err != nil {
		log.WithError(err).Error("failed to start")
		return 1
	}

	log.WithFields(logrus.Fields{
		"server": config.ServerName,
		"port":   config.Port,
	}).Info("listening")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		s.requestShutdown()
	}()

	s.run()

	return 0
}
