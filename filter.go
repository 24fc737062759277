package unreliable

//go:generate stringer -output mode_gen.go -type=Mode

import (
	"net/netip"
	"slices"

	"github.com/pkg/errors"
)

type Mode uint8

const (
	_ Mode = iota

	// only listed addresses admitted
	Whitelist

	// all but listed addresses admitted
	Blacklist

	_mode_end
)

func (m Mode) Valid() error {
	if 0 < m && m < _mode_end {
		return nil
	}
	return errors.Errorf("mode %s", m.String())
}

// Filter screens source addresses, checked before any other processing
// of a datagram. A nil Filter is an empty blacklist, admitting all.
type Filter struct {
	mode  Mode
	addrs map[netip.AddrPort]struct{}
}

func NewWhitelist(addrs ...netip.AddrPort) *Filter {
	return newFilter(Whitelist, addrs)
}

func NewBlacklist(addrs ...netip.AddrPort) *Filter {
	return newFilter(Blacklist, addrs)
}

func newFilter(mode Mode, addrs []netip.AddrPort) *Filter {
	var f = &Filter{mode: mode, addrs: map[netip.AddrPort]struct{}{}}
	for _, a := range addrs {
		f.addrs[a] = struct{}{}
	}
	return f
}

func (f *Filter) Admit(addr netip.AddrPort) bool {
	if f == nil {
		return true
	}

	_, has := f.addrs[addr]
	if f.mode == Whitelist {
		return has
	}
	return !has
}

func (f *Filter) Mode() Mode {
	if f == nil {
		return Blacklist
	}
	return f.mode
}

func (f *Filter) Addrs() []netip.AddrPort {
	if f == nil {
		return nil
	}

	var s = make([]netip.AddrPort, 0, len(f.addrs))
	for a := range f.addrs {
		s = append(s, a)
	}
	slices.SortFunc(s, func(a, b netip.AddrPort) int { return a.Compare(b) })
	return s
}
