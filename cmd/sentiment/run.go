package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gosuri/uiprogress"
	"github.com/spacesedan/corenlp-sentiment/config"
	"github.com/spacesedan/corenlp-sentiment/internal/input"
	"github.com/spacesedan/corenlp-sentiment/internal/output"
	"github.com/spacesedan/corenlp-sentiment/internal/pipeline"
	"github.com/spacesedan/corenlp-sentiment/internal/sentiment"
	"github.com/spacesedan/corenlp-sentiment/internal/settings"
	"github.com/urfave/cli/v2"
)

type runOptions struct {
	input    string
	output   string
	format   string
	fileID   string
	header   bool
	markdown bool
	failFast bool
	quiet    bool
}

func runCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "classify every document of an input file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "input `FILE` (.txt, .csv, .tsv, .xlsx or .json)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output `FILE` (default: stdout)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, xlsx or json (default: from the output extension, else csv)"},
			&cli.StringFlag{Name: "file-id", Usage: "file identifier (default: input base name)"},
			&cli.BoolFlag{Name: "header", Usage: "skip the first row of tabular input"},
			&cli.BoolFlag{Name: "markdown", Usage: "strip markdown before annotation"},
			&cli.BoolFlag{Name: "fail-fast", Usage: "stop at the first document that fails"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "no progress bar"},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runAction(ctx, ui, config.Load(), runOptions{
				input:    c.String("input"),
				output:   c.String("output"),
				format:   c.String("format"),
				fileID:   c.String("file-id"),
				header:   c.Bool("header"),
				markdown: c.Bool("markdown"),
				failFast: c.Bool("fail-fast"),
				quiet:    c.Bool("quiet"),
			})
		},
	}
}

func runAction(ctx context.Context, ui UI, cfg config.AppConfig, opts runOptions) error {
	format := opts.format
	if format == "" {
		format = output.FormatFromPath(opts.output)
	}
	if format == output.FORMAT_XLSX && opts.output == "" {
		return errors.New("xlsx output needs --output")
	}

	payload, err := input.ReadFile(opts.input, input.Options{FileID: opts.fileID, Header: opts.header})
	if err != nil {
		return err
	}

	s, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		return err
	}

	if opts.markdown {
		cfg.InputFormat = config.INPUT_FORMAT_MARKDOWN
	}
	if opts.failFast {
		cfg.FailurePolicy = config.FAILURE_POLICY_FAIL_FAST
	}

	// the bar renders on stdout, so it is only shown when rows go to a file
	var procOpts []sentiment.ProcessorOpt
	if !opts.quiet && opts.output != "" && len(payload.StringList) > 0 {
		progress := uiprogress.New()
		bar := progress.AddBar(len(payload.StringList))
		bar.AppendCompleted()
		bar.PrependElapsed()
		progress.Start()
		defer progress.Stop()

		procOpts = append(procOpts, sentiment.WithProgressCallback(func(done, total int) {
			_ = bar.Set(done)
		}))
	}

	p, err := pipeline.Build(ctx, cfg, s, procOpts...)
	if err != nil {
		return err
	}
	defer p.Close()

	out, err := p.Processor.ProcessBatch(ctx, payload)
	if err != nil {
		return err
	}

	var w io.Writer = ui.Out
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := output.Write(w, format, out); err != nil {
		return err
	}

	if len(out.Errors) > 0 {
		_, _ = fmt.Fprintf(ui.Err, "%d of %d documents failed and were left empty\n",
			len(out.Errors), len(payload.StringList))
	}
	return nil
}
