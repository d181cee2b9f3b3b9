package utils

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// GenerateSlug converts a string into a URL-friendly slug.
// e.g. "Brazilian Body Wave 18\"" -> "brazilian-body-wave-18"
func GenerateSlug(input string) string {
	s := strings.ToLower(input)

	// Remove invalid chars (keep a-z, 0-9, space, hyphen)
	reg := regexp.MustCompile("[^a-z0-9 -]+")
	s = reg.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, " ", "-")

	reg2 := regexp.MustCompile("-+")
	s = reg2.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// RandomToken returns a hex token of 2*n chars from crypto/rand.
func RandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}
