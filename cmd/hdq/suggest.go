package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func runSuggest() {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	timeout := fs.Duration("timeout", 20*time.Second, "Request timeout")
	fs.Parse(os.Args[1:])

	prefix := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prefix == "" {
		fmt.Fprintln(os.Stderr, "usage: hdq suggest <prefix>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := newClient()
	suggestions, err := client.Suggest(ctx, prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "suggest: %v\n", err)
		os.Exit(1)
	}

	if len(suggestions) == 0 {
		fmt.Println("(no suggestions)")
		return
	}
	for i, s := range suggestions {
		fmt.Printf("%2d. %s\n", i+1, s)
	}
}
