package conn

import (
	"encoding/binary"
	"net/netip"

	"golang.org/x/net/bpf"
)

// FilterSources build a filter admitting only datagrams from the given
// ipv4 source addresses. Non-ipv4 passes unfiltered, the userspace
// filter stays authoritative.
func FilterSources(srcs []netip.AddrPort) []bpf.Instruction {
	var ins = iphdrLen()

	for _, src := range srcs {
		ins = append(ins, filterSource(src)...)
	}
	ins = append(ins,
		bpf.RetConstant{Val: 0},
	)
	return ins
}

// iphdrLen store ip header length to reg X
func iphdrLen() []bpf.Instruction {
	return []bpf.Instruction{
		// load ip version to A
		bpf.LoadAbsolute{Off: 0, Size: 1},
		bpf.ALUOpConstant{Op: bpf.ALUOpShiftRight, Val: 4},

		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 4, SkipTrue: 1},
		bpf.RetConstant{Val: 0xffff},

		bpf.LoadMemShift{Off: 0},
	}
}

// filterSource admit the source ip:port, require regX stored iphdr length.
func filterSource(src netip.AddrPort) (ins []bpf.Instruction) {
	ip := src.Addr().As4()

	return []bpf.Instruction{
		// source address
		bpf.LoadAbsolute{Off: 12, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: binary.BigEndian.Uint32(ip[:]), SkipTrue: 3},

		// udp source port
		bpf.LoadIndirect{Off: 0, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: uint32(src.Port()), SkipTrue: 1},
		bpf.RetConstant{Val: 0xffff},
	}
}
