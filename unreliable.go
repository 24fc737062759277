// Package unreliable delivers large messages over an unreliable datagram
// transport. Outbound messages are split into chunks sized to one
// datagram, receivers reassemble them per peer and keep only the newest:
// once a message completes, every older half-assembled message from that
// peer is discarded. Suitable for latest-value feeds, not bulk transfer.
//
// A Sender is driven by one writer and a Receiver by one reader; both may
// share a single conn.Conn, its read and write halves are independent.
package unreliable

const (
	// DefaultDatagramLength fits an ethernet mtu after ip and udp
	// headers.
	DefaultDatagramLength = 1472

	// DefaultOverhead is the per-datagram reserve subtracted when sizing
	// chunk payloads.
	DefaultOverhead = 32
)
