package core

// Entity identifies an object in the session world
// Zero is never allocated and means "none"
type Entity uint64

// PeerID identifies a connected session participant
// The authority is always AuthorityPeer
type PeerID uint32

// AuthorityPeer is the peer id of the authoritative side
const AuthorityPeer PeerID = 0

// Point is an integer grid coordinate
type Point struct {
	X, Y int
}

// NoPeer marks an unassigned peer id, e.g. an observer before its welcome
const NoPeer PeerID = ^PeerID(0)
