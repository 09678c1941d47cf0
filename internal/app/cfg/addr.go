// Package cfg holds the configuration objects for the rpcg client and
// server apps: addresses, listeners, window and batch sizes, timing and
// workload. Each object applies itself to an app through ApplyClientApp
// or ApplyServerApp, and may implement both.
package cfg

import (
	"fmt"
	"net"

	"rpcg/internal"
	"rpcg/internal/app/apps"
	"rpcg/internal/pkg/parse"

	"github.com/pkg/errors"
)

// ErrMalformedAddr is returned for an address that is not host:port with a valid port.
var ErrMalformedAddr = errors.New("malformed address")

// AddrCfg is configuration for the rpcg server address.
type AddrCfg struct {
	addr string
}

// NewAddrCfg creates a new AddrCfg from a host:port address.
func NewAddrCfg(addr string) (*AddrCfg, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedAddr, "%q: %v", addr, err)
	}
	p, err := parse.Uint16(port)
	if err != nil || p == 0 {
		return nil, errors.Wrapf(ErrMalformedAddr, "%q: bad port %q", addr, port)
	}
	return &AddrCfg{addr: net.JoinHostPort(host, fmt.Sprint(p))}, nil
}

// ClientAddrFromEnv creates the address the client dials from the current environment.
func ClientAddrFromEnv() (*AddrCfg, error) {
	return NewAddrCfg(internal.Addr)
}

// ServerAddrFromEnv creates the address the server listens on from the current environment:
// localhost, or every interface when --all is set.
func ServerAddrFromEnv() (*AddrCfg, error) {
	host := "localhost"
	if internal.All {
		host = "0.0.0.0"
	}
	return NewAddrCfg(net.JoinHostPort(host, fmt.Sprint(internal.Port)))
}

// String returns the address.
func (cfg AddrCfg) String() string {
	return cfg.addr
}

// ApplyClientApp applies the AddrCfg to a ClientApp.
func (cfg AddrCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Addr = cfg.addr
	return nil
}

// ApplyServerApp applies the AddrCfg to a ServerApp.
func (cfg AddrCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Addr = cfg.addr
	return nil
}

// ListenerCfg makes a ServerApp serve on an existing listener.
type ListenerCfg struct {
	lis net.Listener
}

// NewListenerCfg creates a new ListenerCfg.
func NewListenerCfg(lis net.Listener) *ListenerCfg {
	return &ListenerCfg{lis: lis}
}

// ApplyServerApp applies the ListenerCfg to a ServerApp.
func (cfg ListenerCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Listener = cfg.lis
	return nil
}
