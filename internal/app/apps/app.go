// Package apps implements the rpcg client and server applications.
package apps

import "context"

// App is a runnable rpcg application.
type App interface {
	Run(ctx context.Context, args []string) error
}
