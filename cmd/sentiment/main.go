package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spacesedan/corenlp-sentiment/config"
	"github.com/spacesedan/corenlp-sentiment/internal/logging"
	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger(os.Getenv("LOG_LEVEL"))

	ui := UI{Out: os.Stdout, Err: os.Stderr}
	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "sentiment: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "sentiment",
		Usage:     "classify the sentiment of every sentence with a CoreNLP server",
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Commands: []*cli.Command{
			runCommand(ui),
			settingsCommand(ui),
			headerCommand(ui),
		},
	}
}
