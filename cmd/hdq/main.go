// Command hdq is the unified CLI for healthdesk debugging and
// maintenance: one-shot calls against the assistant service with the
// normalized output printed to stdout.
//
// Usage:
//
//	hdq                     Show help
//	hdq search <query>      Full search, print normalized summary
//	hdq suggest <prefix>    Suggestion lookup
//	hdq links <query>       Link resolution (ranked references)
//	hdq chat <message>      One chat turn
package main

import (
	"fmt"
	"os"
)

const usage = `hdq — healthdesk debug & maintenance CLI

Usage:
  hdq <command> [flags]

Commands:
  search      Full search for a query, prints the normalized summary
  suggest     As-you-type suggestion lookup for a prefix
  links       Resolve a query to ranked reference links
  chat        Send one chat message

Environment:
  HEALTHDESK_URL   Assistant service base URL (default from config)

Run 'hdq <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "links":
		runLinks()
	case "chat":
		runChat()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "hdq: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
