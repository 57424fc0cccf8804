package interactive

import (
	"fmt"
	"strconv"

	"github.com/c-bata/go-prompt"
	"github.com/spacesedan/corenlp-sentiment/internal/settings"
)

// Chooser asks a question and returns one of choices, or "" when the user
// gives up.
type Chooser func(question string, choices []string) string

// PromptChooser reads the answer from the terminal.
func PromptChooser(question string, choices []string) string {
	return prompt.Choose(question+" ", choices,
		prompt.OptionTitle("sentiment settings"),
		prompt.OptionPrefixTextColor(prompt.Yellow),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
	)
}

// EditSettings walks through every option and returns the edited copy. An
// empty answer keeps the current value.
func EditSettings(current settings.Settings, choose Chooser) (settings.Settings, error) {
	next := current

	includeText, err := askBool(choose, "Include sentence text in output?", current.IncludeSentenceText)
	if err != nil {
		return current, err
	}
	builtIn, err := askBool(choose, "Use the built-in sentence splitter?", current.UseBuiltInSentenceSplitter)
	if err != nil {
		return current, err
	}

	next.IncludeSentenceText = includeText
	next.UseBuiltInSentenceSplitter = builtIn
	return next, nil
}

func askBool(choose Chooser, question string, current bool) (bool, error) {
	answer := choose(fmt.Sprintf("%s [%t]", question, current), []string{"true", "false"})
	if answer == "" {
		return current, nil
	}
	v, err := strconv.ParseBool(answer)
	if err != nil {
		return current, fmt.Errorf("invalid answer %q to %q", answer, question)
	}
	return v, nil
}
