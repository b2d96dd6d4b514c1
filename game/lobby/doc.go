// Package lobby keeps the games hosted by the reference server.
//
// Game ids follow the "game-N" sequence. Every read returns a Snapshot copy
// so callers can serialize it without holding the registry lock. Listing
// only reports games that can still be joined.
package lobby
