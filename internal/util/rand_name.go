// Package util provides small helpers shared across the probe.
package util

import (
	"crypto/rand"
	"math/big"
)

// randNameLength sets the length of random probe-name suffixes (12).
const randNameLength = 12

// letters defines the character set for random names.
var letters = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// RandName generates a 12-character random, Docker-compatible name suffix for
// verification probe containers.
func RandName() string {
	nameBuffer := make([]rune, randNameLength)
	for i := range nameBuffer {
		index, _ := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		nameBuffer[i] = letters[index.Int64()]
	}

	return string(nameBuffer)
}
