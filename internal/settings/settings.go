package settings

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	KEY_INCLUDE_SENTENCE_TEXT = "IncludeSentenceText"
	KEY_BUILT_IN_SPLITTER     = "useBuiltInSentenceSplitter"
)

var ErrMissingSetting = errors.New("missing setting")

// Settings are the user-facing options of the sentiment processor.
type Settings struct {
	// IncludeSentenceText fills the SentenceText column.
	IncludeSentenceText bool
	// UseBuiltInSentenceSplitter lets the pipeline split documents into
	// sentences; when false every document is treated as one sentence.
	UseBuiltInSentenceSplitter bool
}

func Default() Settings {
	return Settings{
		IncludeSentenceText:        true,
		UseBuiltInSentenceSplitter: true,
	}
}

func (s Settings) Export() map[string]string {
	return map[string]string{
		KEY_INCLUDE_SENTENCE_TEXT: strconv.FormatBool(s.IncludeSentenceText),
		KEY_BUILT_IN_SPLITTER:     strconv.FormatBool(s.UseBuiltInSentenceSplitter),
	}
}

// Import replaces s with the values in dict. Both keys are required; s is
// left untouched on error.
func (s *Settings) Import(dict map[string]string) error {
	includeText, err := parseKey(dict, KEY_INCLUDE_SENTENCE_TEXT)
	if err != nil {
		return err
	}
	builtIn, err := parseKey(dict, KEY_BUILT_IN_SPLITTER)
	if err != nil {
		return err
	}

	s.IncludeSentenceText = includeText
	s.UseBuiltInSentenceSplitter = builtIn
	return nil
}

func parseKey(dict map[string]string, key string) (bool, error) {
	raw, ok := dict[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrMissingSetting, key)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid value %q for %s: %w", raw, key, err)
	}
	return v, nil
}
