package main

// main.go implements the pixelcache inspector CLI: it parses command-line
// flags, fetches diagnostic data from a target process exposing pixelcache's
// debug endpoint, and prints it either as pretty text or JSON. It also
// supports periodic watch mode and pprof snapshot download.
//
// The target Go service is expected to expose:
//   GET /debug/pixelcache/snapshot      – JSON payload, see pkg.Snapshot.
//   GET /debug/pprof/{heap,goroutine}   – standard pprof handlers (net/http/pprof).
//
// Build-time flag: `-ldflags "-X main.version=vX.Y.Z"` is set by the release
// pipeline.
//
// © 2025 pixelcache authors. MIT License.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cache "github.com/voskan/pixelcache/pkg"
)

var version = "dev"

func main() {
	opts := parseFlags()

	if opts.version {
		fmt.Println(version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if opts.heapProfile != "" {
		if err := downloadProfile(ctx, opts.target, "heap", opts.heapProfile); err != nil {
			fatal(err)
		}
		return
	}
	if opts.goroutineProfile != "" {
		if err := downloadProfile(ctx, opts.target, "goroutine", opts.goroutineProfile); err != nil {
			fatal(err)
		}
		return
	}

	if opts.watch {
		ticker := time.NewTicker(opts.interval)
		defer ticker.Stop()
		for {
			if err := dumpOnce(ctx, opts); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
			select {
			case <-ticker.C:
				continue
			case <-ctx.Done():
				return
			}
		}
	}

	if err := dumpOnce(ctx, opts); err != nil {
		fatal(err)
	}
}

func dumpOnce(ctx context.Context, opts *options) error {
	snap, err := fetchSnapshot(ctx, opts.target)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return prettyPrint(snap)
}

func fetchSnapshot(ctx context.Context, base string) (cache.Snapshot, error) {
	url := base + "/debug/pixelcache/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return cache.Snapshot{}, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return cache.Snapshot{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return cache.Snapshot{}, fmt.Errorf("unexpected status %s", res.Status)
	}
	var snap cache.Snapshot
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		return cache.Snapshot{}, err
	}
	return snap, nil
}

func prettyPrint(snap cache.Snapshot) error {
	fmt.Printf("cache:     %s\n", snap.Name)
	fmt.Printf("queries:   %d\n", snap.Queries)
	fmt.Printf("misses:    %d\n", snap.Misses)
	fmt.Printf("resident:  %.2f MB\n", float64(snap.ResidentBytes)/1_048_576)
	fmt.Printf("entries:   %d\n", len(snap.Entries))
	for _, e := range snap.Entries {
		if !e.Occupied {
			fmt.Printf("  [%d] empty used=%d size=%dB\n", e.Index, e.Used, e.SizeBytes)
			continue
		}
		fmt.Printf("  [%d] basic=%#016x hash=%#016x used=%d size=%dB\n",
			e.Index, e.BasicHash, e.Hash, e.Used, e.SizeBytes)
	}
	return nil
}

func downloadProfile(ctx context.Context, base, name, path string) error {
	url := fmt.Sprintf("%s/debug/pprof/%s", base, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", res.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, res.Body); err != nil {
		return err
	}
	fmt.Printf("%s profile saved to %s\n", name, path)
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "pixelcache-inspect:", err)
	os.Exit(1)
}
