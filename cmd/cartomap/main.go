// Command cartomap renders maps from Natural Earth data.
//
// Usage:
//
//	cartomap render --projection mollweide --features land,coastline -o world.png
//	cartomap render maps.yaml
//	cartomap projections
//	cartomap fetch --category coastline,land --resolution 110m,50m
//	cartomap cache --clear
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
