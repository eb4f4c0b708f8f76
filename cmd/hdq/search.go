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

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	points := fs.Int("points", narrate.DefaultWindow, "Trailing series points to print")
	timeout := fs.Duration("timeout", 60*time.Second, "Request timeout")
	fs.Parse(os.Args[1:])

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: hdq search [--points N] <query>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := newClient()
	t0 := time.Now()
	payload, err := client.Search(ctx, query, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf(">>> QUERY: %q  (%.0fms)\n", query, time.Since(t0).Seconds()*1000)
	fmt.Println(strings.Repeat("-", 72))

	if summary := narrate.Summary(payload); summary != "" {
		fmt.Println(summary)
	} else {
		fmt.Println("(no summary in payload)")
	}

	if detail := narrate.LastPoints(payload, *points); len(detail) > 0 {
		fmt.Println("\nRecent points:")
		for _, pt := range detail {
			fmt.Printf("  %-12s %s\n", pt.Date, narrate.FormatNumber(pt.Value))
		}
	}

	if len(payload.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range payload.Sources {
			fmt.Printf("  %s  %s\n", s.Name, s.URL)
		}
	}
}
