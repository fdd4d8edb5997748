package main

import (
	"flag"
	"time"
)

// options bundles every flag pixelcache-inspect accepts.
type options struct {
	target  string
	json    bool
	watch   bool
	interval time.Duration

	heapProfile      string
	goroutineProfile string

	version bool
}

func parseFlags() *options {
	opts := &options{}

	flag.StringVar(&opts.target, "target", "http://localhost:6060", "base URL of the instrumented process")
	flag.BoolVar(&opts.json, "json", false, "emit machine-readable JSON instead of a text summary")
	flag.BoolVar(&opts.watch, "watch", false, "poll the target repeatedly instead of a single dump")
	flag.DurationVar(&opts.interval, "interval", 2*time.Second, "poll interval when -watch is set")
	flag.StringVar(&opts.heapProfile, "heap-profile", "", "download a heap pprof profile to this path and exit")
	flag.StringVar(&opts.goroutineProfile, "goroutine-profile", "", "download a goroutine pprof profile to this path and exit")
	flag.BoolVar(&opts.version, "version", false, "print the inspector version and exit")

	flag.Parse()
	return opts
}
