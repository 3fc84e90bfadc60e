package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hirehub/internal/buildinfo"
	"github.com/dmitrijs2005/hirehub/internal/client/cli"
	"github.com/dmitrijs2005/hirehub/internal/client/config"
	"github.com/dmitrijs2005/hirehub/internal/filex"
	"github.com/dmitrijs2005/hirehub/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := filex.OpenAppend(cfg.LogFile)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.NewTextLogger(logOut, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
