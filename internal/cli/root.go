package cli

import (
	"context"
	"os"
)

// Execute runs the rrgraph CLI with os.Args and returns the first command
// error.
//
// Logging goes to stderr at the configured level (info by default); the
// persistent --verbose (-v) flag switches to debug. The logger is attached
// to the command context and reachable through loggerFromContext.
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return ExecuteArgs(ctx, os.Args[1:])
}

// ExecuteArgs is Execute with explicit arguments.
func ExecuteArgs(ctx context.Context, args []string) error {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
