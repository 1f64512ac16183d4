package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// AccessCodeLength is the number of characters in a group access code.
const AccessCodeLength = 6

const (
	accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds the regenerate-on-collision loop.
	maxCodeAttempts = 16
)

var ErrAccessCodeExhausted = errors.New("could not generate a unique access code")

// CodeGenerator produces candidate access codes.
type CodeGenerator func() (string, error)

// NormalizeAccessCode makes user input comparable with stored codes.
// Codes are case-insensitive and stored in uppercase.
func NormalizeAccessCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateAccessCode returns a random uppercase alphanumeric code.
func GenerateAccessCode() (string, error) {
	max := big.NewInt(int64(len(accessCodeAlphabet)))
	var b strings.Builder
	b.Grow(AccessCodeLength)
	for i := 0; i < AccessCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		b.WriteByte(accessCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// UniqueAccessCode draws codes from generate until taken reports one as free.
func UniqueAccessCode(generate CodeGenerator, taken func(code string) bool) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generate()
		if err != nil {
			return "", err
		}
		code = NormalizeAccessCode(code)
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrAccessCodeExhausted
}
