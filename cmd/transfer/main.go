package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/rawsock/test"
	"github.com/lysShub/unreliable"
	"github.com/lysShub/unreliable/conn"
	"github.com/stretchr/testify/require"
)

// Line chat over udp, run two mirrored instances:
//
//	transfer 19986 19987
//	transfer 19987 19986
//
// The short datagram length makes most lines fragment.
func main() {
	fmt.Println(debug.Debug())
	if len(os.Args) != 3 {
		fmt.Println("usage: transfer <local-port> <remote-port>")
		os.Exit(1)
	}

	t := test.T()
	local, err := strconv.ParseUint(os.Args[1], 10, 16)
	require.NoError(t, err)
	remote, err := strconv.ParseUint(os.Args[2], 10, 16)
	require.NoError(t, err)

	c, err := conn.Bind("udp", fmt.Sprintf(":%d", local))
	require.NoError(t, err)
	defer c.Close()
	to, err := unreliable.ResolveAddrs(fmt.Sprintf("127.0.0.1:%d", remote))
	require.NoError(t, err)

	s := unreliable.NewSender(c, &unreliable.SenderConfig{DatagramLength: 50})
	r := unreliable.NewReceiver(c, &unreliable.ReceiverConfig{DatagramLength: 50})

	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			require.NoError(t, s.Enqueue(sc.Bytes(), to))
			require.NoError(t, s.SendAll())
		}
		require.NoError(t, sc.Err())
	}()

	for {
		from, msg, err := r.Poll()
		require.NoError(t, err)
		fmt.Printf("%s %d| %s\n", from, msg.ID, msg.Payload)
	}
}
