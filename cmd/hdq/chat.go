package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/calebmorse/healthdesk/internal/narrate"
)

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	timeout := fs.Duration("timeout", 60*time.Second, "Request timeout")
	fs.Parse(os.Args[1:])

	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		fmt.Fprintln(os.Stderr, "usage: hdq chat <message>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := newClient()
	payload, err := client.Chat(ctx, message, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}

	if summary := narrate.Summary(payload); summary != "" {
		fmt.Println(summary)
	} else {
		fmt.Println("(empty reply)")
	}
}
