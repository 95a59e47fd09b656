// Package genius fetches song metadata from the Genius API.
//
// All endpoints wrap their payloads in a {"response": ...} envelope, which
// is unwrapped during normalization. Song descriptions come back in the
// text format requested on the call (plain by default); the unrecognized
// remainder of each payload is ignored and the raw body is retained.
package genius
