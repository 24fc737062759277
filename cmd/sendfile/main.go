package main

import (
	"fmt"
	"os"
	"time"

	"github.com/anacrolix/tagflag"
	"github.com/lysShub/rawsock/test"
	"github.com/lysShub/unreliable"
	"github.com/lysShub/unreliable/conn"
	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/require"
)

// Pushes a file as numbered parts, one message each, then an empty tail
// message as the end mark. A lost part stays zero in the output, raise
// -copies on lossy paths.
//
//	sendfile -recv -laddr :19986 ./out.bin
//	sendfile -dst 127.0.0.1:19986 ./in.bin
var flags = struct {
	Recv   bool   `help:"receive into FILE instead of sending it"`
	Laddr  string `help:"local udp address"`
	Dst    string `help:"destination host:port"`
	Part   int    `help:"bytes per message"`
	Copies int    `help:"replicas of every message"`
	tagflag.StartPos
	File string
}{
	Laddr:  ":0",
	Part:   256 << 10,
	Copies: 1,
}

var t = test.T()

func main() {
	tagflag.Parse(&flags)

	c, err := conn.Bind("udp", flags.Laddr)
	require.NoError(t, err)
	defer c.Close()

	if flags.Recv {
		recv(c)
	} else {
		send(c)
	}
}

func send(c conn.Conn) {
	file, err := os.ReadFile(flags.File)
	require.NoError(t, err)
	to, err := unreliable.ResolveAddrs(flags.Dst)
	require.NoError(t, err)

	s := unreliable.NewSender(c, &unreliable.SenderConfig{Replication: flags.Copies})

	bar := progressbar.DefaultBytes(int64(len(file)), "send")
	for len(file) > 0 {
		n := min(flags.Part, len(file))
		require.NoError(t, s.Enqueue(file[:n], to))
		require.NoError(t, s.SendAll())
		require.NoError(t, bar.Add(n))
		file = file[n:]

		time.Sleep(time.Millisecond) // don't outrun the socket buffer
	}
	require.NoError(t, s.Enqueue(nil, to))
	require.NoError(t, s.SendAll())
	require.NoError(t, bar.Finish())
}

func recv(c conn.Conn) {
	f, err := os.Create(flags.File)
	require.NoError(t, err)
	defer f.Close()

	r := unreliable.NewReceiver(c, &unreliable.ReceiverConfig{MaxStages: 8})

	bar := progressbar.DefaultBytes(-1, "recv")
	for {
		_, msg, err := r.Poll()
		require.NoError(t, err)
		if len(msg.Payload) == 0 {
			break
		}

		_, err = f.WriteAt(msg.Payload, int64(msg.ID-1)*int64(flags.Part))
		require.NoError(t, err)
		require.NoError(t, bar.Add(len(msg.Payload)))
	}
	require.NoError(t, bar.Finish())

	fmt.Printf("\n%+v\n", r.Stats())
}
