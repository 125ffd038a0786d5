package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"toxshield/internal/config"
	"toxshield/internal/panel"
	"toxshield/internal/remote"
)

func main() {
	cfg := config.Load()

	addr := flag.String("coordinator", cfg.CoordinatorURL, "coordinator base URL")
	refresh := flag.Bool("refresh", false, "analyze the active tab now instead of showing the last result")
	asJSON := flag.Bool("json", false, "print the view as JSON")
	timeout := flag.Duration("timeout", 2*cfg.ClassifierTimeout+5*time.Second, "overall request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := remote.New(*addr, *timeout)
	p := panel.New(client, client)

	var v panel.View
	if *refresh {
		v = p.Refresh(ctx)
	} else {
		v = p.Open(ctx)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			log.Fatalf("Failed to encode view: %v", err)
		}
		return
	}

	printView(v)
	if v.State == panel.ViewUnreachable {
		os.Exit(1)
	}
}

func printView(v panel.View) {
	if v.Verdict == nil {
		fmt.Println(v.Headline())
		if v.Error != "" {
			fmt.Printf("  (%s)\n", v.Error)
		}
		return
	}

	d := v.Verdict
	fmt.Printf("%s %s - %s\n", d.Icon, d.Category, d.Message)
	fmt.Printf("Tab:       %s\n", v.TabID)
	fmt.Printf("Toxicity:  %d%%\n", d.Percent)
	fmt.Printf("Language:  %s\n", d.Language)
	for _, hl := range d.Result.Highlights {
		fmt.Printf("  - %s\n", hl)
	}
}
