// Package main is the entry point for the audit probe.
package main

import (
	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/cmd"
)

// init sets the initial logging level before flags are parsed.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

// main runs the root command.
func main() {
	cmd.Execute()
}
