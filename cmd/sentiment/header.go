package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/urfave/cli/v2"
)

func headerCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "header",
		Usage: "print the output columns, or the full plugin description with --info",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "info", Usage: "print plugin metadata as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("info") {
				data, err := json.MarshalIndent(models.CoreNLPSentimentPlugin, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(ui.Out, string(data))
				return err
			}
			_, err := fmt.Fprintln(ui.Out, strings.Join(models.OutputHeader[:], "\t"))
			return err
		},
	}
}
