// Command rfd is a command-line client for the RedFlagDeals forums.
//
// Usage:
//
//	rfd                          Show help
//	rfd threads                  List threads in a forum
//	rfd watch-threads            Poll a forum and report new threads
//	rfd search <regex>           Search thread titles and dealers
//	rfd posts <id|url>           Show every post in a thread
//	rfd version                  Print the version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/abelbrown/rfd/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

const usage = `rfd - CLI for https://forums.redflagdeals.com

Usage:
  rfd <command> [flags]

Commands:
  threads         Display threads in a forum (defaults to hot deals)
  watch-threads   Poll a forum and report threads as they are posted
  search          Search deals with a regular expression
  posts           Display all posts in a thread
  version         Print the version

Popular forum ids:
  9    hot deals
  14   computer and electronics
  15   offtopic
  17   entertainment
  18   food and drink
  40   automotive
  53   home and garden
  67   fashion and apparel
  74   shopping discussion
  88   cell phones

Environment:
  RFD_PUSHOVER_TOKEN, RFD_PUSHOVER_USER   Pushover credentials for watch-threads
  RFD_DISCORD_WEBHOOK_URL                 Discord webhook for watch-threads
  RFD_BASE_URL                            Forum base URL
  RFD_LOG_LEVEL                           debug, info, warn or error

Run 'rfd <command> -h' for command-specific help.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.Load,
	}
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// run dispatches to a subcommand and returns the process exit status.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stdout, usage)
		return 0
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "threads":
		err = a.runThreads(ctx, rest)
	case "watch-threads":
		err = a.runWatch(ctx, rest)
	case "search":
		err = a.runSearch(ctx, rest)
	case "posts":
		err = a.runPosts(ctx, rest)
	case "version", "-v", "--version":
		fmt.Fprintln(a.stdout, "rfd v"+version)
	case "-h", "--help", "help":
		fmt.Fprint(a.stdout, usage)
	default:
		fmt.Fprintf(a.stderr, "rfd: unknown command %q\n\n", cmd)
		fmt.Fprint(a.stderr, usage)
		return 1
	}

	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
		return 0
	default:
		fmt.Fprintf(a.stderr, "rfd %s: %v\n", cmd, err)
		return 1
	}
}

// app carries the process-wide collaborators so commands can be run
// against buffers and a test server.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (*config.Config, error)
}
