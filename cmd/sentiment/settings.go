package main

import (
	"fmt"

	"github.com/spacesedan/corenlp-sentiment/config"
	"github.com/spacesedan/corenlp-sentiment/internal/interactive"
	"github.com/spacesedan/corenlp-sentiment/internal/settings"
	"github.com/urfave/cli/v2"
)

func settingsCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "show, import or edit the processor settings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "settings file (default: SETTINGS_FILE)"},
			&cli.StringFlag{Name: "import", Usage: "replace the settings with the ones in `FILE`"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "edit the settings in the terminal"},
			&cli.BoolFlag{Name: "export", Usage: "print the settings as KEY=value lines"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("file")
			if path == "" {
				path = config.Load().SettingsFile
			}
			return settingsAction(ui, path, c.String("import"), c.Bool("interactive"), c.Bool("export"), interactive.PromptChooser)
		},
	}
}

func settingsAction(ui UI, path, importPath string, edit, export bool, choose interactive.Chooser) error {
	s, err := settings.Load(path)
	if err != nil {
		return err
	}
	changed := false

	if importPath != "" {
		s, err = settings.Read(importPath)
		if err != nil {
			return err
		}
		changed = true
	}

	if edit {
		s, err = interactive.EditSettings(s, choose)
		if err != nil {
			return err
		}
		changed = true
	}

	if changed {
		if err := settings.Save(path, s); err != nil {
			return err
		}
	}

	if export || !changed {
		text, err := settings.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(ui.Out, text); err != nil {
			return err
		}
	}
	return nil
}
