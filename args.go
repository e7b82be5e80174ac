package main

import (
	"strconv"

	"github.com/pkg/errors"
)

// parseArgs validates the server's positional command line arguments:
// server <port> <password>
func parseArgs(args []string) (int, string, error) {
	if len(args) != 2 {
		return 0, "", errors.Errorf("usage: %s <port> <password>", progName)
	}

	port, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, "", errors.Wrap(err, "invalid port")
	}

	return port, args[1], nil
}

const progName = "server"
