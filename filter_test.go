package unreliable

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Filter(t *testing.T) {
	var (
		a = netip.MustParseAddrPort("1.1.1.1:53")
		b = netip.MustParseAddrPort("8.8.8.8:53")
		c = netip.MustParseAddrPort("1.1.1.1:443")
	)

	t.Run("whitelist", func(t *testing.T) {
		f := NewWhitelist(a, b)
		require.Equal(t, Whitelist, f.Mode())
		require.True(t, f.Admit(a))
		require.True(t, f.Admit(b))
		require.False(t, f.Admit(c))
	})

	t.Run("empty whitelist", func(t *testing.T) {
		f := NewWhitelist()
		require.False(t, f.Admit(a))
	})

	t.Run("blacklist", func(t *testing.T) {
		f := NewBlacklist(a)
		require.Equal(t, Blacklist, f.Mode())
		require.False(t, f.Admit(a))
		require.True(t, f.Admit(b))
		require.True(t, f.Admit(c))
	})

	t.Run("empty blacklist", func(t *testing.T) {
		f := NewBlacklist()
		require.True(t, f.Admit(a))
		require.True(t, f.Admit(b))
	})

	t.Run("nil filter", func(t *testing.T) {
		var f *Filter
		require.Equal(t, Blacklist, f.Mode())
		require.True(t, f.Admit(a))
	})

	t.Run("addrs sorted", func(t *testing.T) {
		f := NewWhitelist(b, c, a)
		require.Equal(t, []netip.AddrPort{a, c, b}, f.Addrs())
	})

	t.Run("mode", func(t *testing.T) {
		require.NoError(t, Whitelist.Valid())
		require.NoError(t, Blacklist.Valid())
		require.Error(t, Mode(0).Valid())
		require.Error(t, _mode_end.Valid())
		require.Equal(t, "Whitelist", Whitelist.String())
		require.Equal(t, "Blacklist", Blacklist.String())
	})
}
