package main

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// This file contains helper functions for string manipulation.

// cityKey returns the comparison key for a history label. Two labels that differ only
// in letter case (including non-ASCII letters such as "ŁÓDŹ" and "łódź") share a key.
// Labels are NFC-normalized first so composed and decomposed accents compare equal.
// A Caser keeps state, so a fresh one is used per call.
func cityKey(label string) string {
	return cases.Fold().String(norm.NFC.String(label))
}

// componentUnescaped are the characters URI component encoding leaves alone but
// url.QueryEscape escapes.
var componentUnescaped = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent percent-encodes s for use as a single URL component:
// UTF-8 bytes outside the unreserved set are escaped and spaces become %20.
func encodeURIComponent(s string) string {
	return componentUnescaped.Replace(url.QueryEscape(s))
}
