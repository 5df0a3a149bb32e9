// Command server runs the flashquiz HTTP API until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/heartmarshall/flashquiz/internal/app"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to the YAML config file (default $CONFIG_PATH or ./config.yaml)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(app.BuildVersion())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, *configPath); err != nil {
		log.Fatalf("%s: %v", app.Name, err)
	}
}
