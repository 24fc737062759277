package unreliable

import (
	"log/slog"
	"os"

	"github.com/lysShub/unreliable/chunk"
	"github.com/pkg/errors"
)

type SenderConfig struct {
	// DatagramLength bounds one outbound datagram, chunk header included.
	DatagramLength int

	// Overhead is subtracted from DatagramLength when sizing chunk
	// payloads, it covers the chunk header and lower-layer slack.
	Overhead int

	// Replication enqueues the whole chunk set of every message this
	// many times, identical ids and indices.
	Replication int

	// QueueCap is the outbound queue's initial capacity.
	QueueCap int

	LogPath string
	logger  *slog.Logger
}

func (c *SenderConfig) init() *SenderConfig {
	if c.DatagramLength == 0 {
		c.DatagramLength = DefaultDatagramLength
	}
	if c.Overhead == 0 {
		c.Overhead = DefaultOverhead
	}
	if c.DatagramLength <= c.Overhead {
		panic(errors.Errorf("datagram length %d, overhead %d", c.DatagramLength, c.Overhead))
	}
	if c.Replication <= 0 {
		c.Replication = 1
	}
	if c.QueueCap <= 0 {
		c.QueueCap = 64
	}

	c.logger = logger(c.LogPath)
	return c
}

type ReceiverConfig struct {
	// DatagramLength bounds one inbound datagram, longer input is
	// truncated by the socket.
	DatagramLength int

	// Filter screens source addresses before any reassembly, nil admits
	// all.
	Filter *Filter

	// MaxPeers and MaxStages cap tracked peers and open stages per peer,
	// evicting the least recently active. 0 means unbounded.
	MaxPeers  int
	MaxStages int

	LogPath string
	logger  *slog.Logger
}

func (c *ReceiverConfig) init() *ReceiverConfig {
	if c.DatagramLength == 0 {
		c.DatagramLength = DefaultDatagramLength
	}
	if c.DatagramLength < chunk.HeaderSize {
		panic(errors.Errorf("datagram length %d", c.DatagramLength))
	}

	c.logger = logger(c.LogPath)
	return c
}

func logger(path string) *slog.Logger {
	var fh *os.File
	if path == "" {
		fh = os.Stdout
	} else {
		var err error
		fh, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o666)
		if err != nil {
			panic(err)
		}
	}
	return slog.New(slog.NewJSONHandler(fh, nil))
}
