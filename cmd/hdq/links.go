package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/calebmorse/healthdesk/internal/links"
)

func runLinks() {
	fs := flag.NewFlagSet("links", flag.ExitOnError)
	open := fs.Bool("open", false, "Open the top result in the browser (quick-open)")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	fs.Parse(os.Args[1:])

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: hdq links [--open] <query>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resolver := links.NewResolver(newClient(), nil)

	if *open {
		opened, notice := resolver.ResolveAndOpenFirst(ctx, query)
		if !opened {
			fmt.Println(notice)
			os.Exit(1)
		}
		fmt.Println("Opened top source.")
		return
	}

	items := resolver.Resolve(ctx, query)
	if len(items) == 0 {
		if msg := resolver.LastError(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		} else {
			fmt.Println(links.NoSourcesNotice)
		}
		os.Exit(1)
	}
	for i, item := range items {
		fmt.Printf("%2d. %s\n    %s  [%s]\n", i+1, item.Title, item.URL, item.Source)
	}
}
