// Package ipcheck classifies strings as IPv4 or IPv6 address literals.
//
// The checks are purely syntactic and are used to reject obviously
// malformed input before a request reaches the backend, which remains
// authoritative.
//
// IPv4 literals are four dot-separated decimal groups of one to three
// digits, each in the range [0, 255]. Leading zeros are accepted, so
// "192.168.01.1" is valid.
//
// IPv6 literals are eight colon-separated groups of one to four hex
// digits, or a compressed form with exactly one "::" standing in for one
// or more all-zero groups. Groups are not canonicalized.
package ipcheck
