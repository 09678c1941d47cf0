package cfg

import (
	"testing"

	"rpcg/internal"
	"rpcg/internal/app/apps"

	"github.com/stretchr/testify/require"
)

func TestNewAddrCfg(t *testing.T) {
	c, err := NewAddrCfg("localhost:29381")
	require.NoError(t, err)
	require.Equal(t, "localhost:29381", c.String())

	c, err = NewAddrCfg("[::1]:29381")
	require.NoError(t, err)
	require.Equal(t, "[::1]:29381", c.String())

	for _, bad := range []string{"localhost", "localhost:", "localhost:http", "localhost:0", "localhost:70000", ":-1"} {
		_, err := NewAddrCfg(bad)
		require.ErrorIs(t, err, ErrMalformedAddr, bad)
	}
}

func TestServerAddrFromEnv(t *testing.T) {
	defer func(port int, all bool) { internal.Port, internal.All = port, all }(internal.Port, internal.All)
	internal.Port = 4000
	internal.All = false
	c, err := ServerAddrFromEnv()
	require.NoError(t, err)
	require.Equal(t, "localhost:4000", c.String())

	internal.All = true
	c, err = ServerAddrFromEnv()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:4000", c.String())

	app, err := apps.NewServerApp(c)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:4000", app.Addr)
}
