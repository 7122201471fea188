// Command fsmeta is a diagnostic CLI exercising every public
// operation of the fs-metadata-engine: mount enumeration, volume
// metadata, and hidden-attribute get/set. It is scaffolding for
// proving the engine works end-to-end without a real host binding,
// not a product in its own right.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/photostructure/fs-metadata-engine/fsmetadata"
)

func main() {
	var (
		timeoutMs   = flag.Int("timeout-ms", 7000, "per-operation timeout in milliseconds")
		includeSys  = flag.Bool("include-system-volumes", false, "include system/pseudo volumes in enumeration")
		jsonOutput  = flag.Bool("json", false, "force machine-readable JSON output regardless of terminal detection")
		enrichment  = flag.Bool("enrich", false, "enable Linux D-Bus/UDisks2 label enrichment")
		hiddenPath  = flag.String("hidden-path", "", "path to query or mutate with is-hidden/set-hidden")
		setHiddenTo = flag.String("set-hidden", "", "true|false: set -hidden-path's hidden attribute")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nreceived termination signal, shutting down...")
		cancel()
	}()

	var opts []fsmetadata.Option
	if *enrichment {
		opts = append(opts, fsmetadata.WithEnrichment())
	}
	engine := fsmetadata.New(opts...)
	defer engine.Close()

	humanReadable := !*jsonOutput && term.IsTerminal(int(os.Stdout.Fd()))

	command := flag.Arg(0)
	switch command {
	case "", "list":
		runEnumerate(ctx, engine, *timeoutMs, *includeSys, humanReadable)
	case "is-hidden":
		runIsHidden(ctx, engine, *hiddenPath, humanReadable)
	case "set-hidden":
		runSetHidden(ctx, engine, *hiddenPath, *setHiddenTo, humanReadable)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want: list, is-hidden, set-hidden)\n", command)
		os.Exit(2)
	}
}

// MountRow is one line of `list` output, either rendered as a table
// or marshaled directly to JSON.
type MountRow struct {
	MountPoint     string                     `json:"mount_point"`
	FSType         string                     `json:"fs_type"`
	Status         fsmetadata.Status          `json:"status"`
	IsSystemVolume bool                       `json:"is_system_volume"`
	Metadata       *fsmetadata.VolumeMetadata `json:"metadata,omitempty"`
}

func runEnumerate(ctx context.Context, engine *fsmetadata.Engine, timeoutMs int, includeSys, humanReadable bool) {
	reqOpts := fsmetadata.Options{
		TimeoutMs:            timeoutMs,
		IncludeSystemVolumes: includeSys,
	}
	waitBudget := reqOpts.Normalize().Timeout() + time.Second

	future := engine.EnumerateMountPoints(ctx, reqOpts)
	mountPoints, err := future.Wait(ctx, waitBudget)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enumerate_mount_points failed: %v\n", err)
		os.Exit(1)
	}

	rows := make([]MountRow, 0, len(mountPoints))
	for _, mp := range mountPoints {
		r := MountRow{
			MountPoint:     mp.MountPoint,
			FSType:         mp.FSType,
			Status:         mp.Status,
			IsSystemVolume: mp.IsSystemVolume,
		}
		if mp.Status.IsTerminalSuccess() {
			metaFuture := engine.GetVolumeMetadata(ctx, mp, reqOpts)
			if meta, err := metaFuture.Wait(ctx, waitBudget); err == nil {
				r.Metadata = &meta
			}
		}
		rows = append(rows, r)
	}

	if humanReadable {
		printMountTable(rows)
		return
	}
	if err := printJSON(rows); err != nil {
		fmt.Fprintf(os.Stderr, "output failed: %v\n", err)
		os.Exit(1)
	}
}

func runIsHidden(ctx context.Context, engine *fsmetadata.Engine, path string, humanReadable bool) {
	if path == "" {
		fmt.Fprintln(os.Stderr, "is-hidden requires -hidden-path")
		os.Exit(2)
	}
	future := engine.IsHidden(ctx, path)
	hidden, err := future.Wait(ctx, 10*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "is_hidden failed: %v\n", err)
		os.Exit(1)
	}

	if humanReadable {
		fmt.Printf("%s: hidden=%t\n", path, hidden)
		return
	}
	_ = printJSON(map[string]any{"path": path, "hidden": hidden})
}

func runSetHidden(ctx context.Context, engine *fsmetadata.Engine, path, setTo string, humanReadable bool) {
	if path == "" || (setTo != "true" && setTo != "false") {
		fmt.Fprintln(os.Stderr, "set-hidden requires -hidden-path and -set-hidden=true|false")
		os.Exit(2)
	}
	want := setTo == "true"
	future := engine.SetHidden(ctx, path, want)
	newPath, err := future.Wait(ctx, 10*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "set_hidden failed: %v\n", err)
		os.Exit(1)
	}

	if humanReadable {
		fmt.Printf("%s: hidden=%t\n", newPath, want)
		return
	}
	_ = printJSON(map[string]any{"path": newPath, "hidden": want})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMountTable(rows []MountRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MOUNT POINT\tFSTYPE\tSTATUS\tSYSTEM\tSIZE\tUSED\tAVAILABLE\tLABEL")
	for _, r := range rows {
		var size, used, avail uint64
		var label string
		if r.Metadata != nil {
			size, used, avail, label = r.Metadata.Size, r.Metadata.Used, r.Metadata.Available, r.Metadata.Label
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%d\t%d\t%s\n",
			r.MountPoint, r.FSType, r.Status, r.IsSystemVolume, size, used, avail, label)
	}
	w.Flush()
}
