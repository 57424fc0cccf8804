package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spacesedan/corenlp-sentiment/internal/models"
)

var (
	ErrBlankDocument       = errors.New("document is blank")
	ErrMalformedAnnotation = errors.New("malformed sentiment annotation")
)

// Annotator is the external NLP pipeline: tokenize, ssplit, parse and
// sentiment over one document.
type Annotator interface {
	Annotate(ctx context.Context, text string) (models.CoreNLPDocument, error)
}

// Classifier reads sentence sentiment out of the pipeline's annotations. It
// does no scoring of its own.
type Classifier struct {
	annotator Annotator
}

func NewClassifier(annotator Annotator) *Classifier {
	return &Classifier{annotator: annotator}
}

func (c *Classifier) Classify(ctx context.Context, text string) ([]models.SentenceResult, error) {
	if IsBlank(text) {
		return nil, ErrBlankDocument
	}

	doc, err := c.annotator.Annotate(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("annotation failed: %w", err)
	}

	results := make([]models.SentenceResult, 0, len(doc.Sentences))
	for i, sentence := range doc.Sentences {
		result, err := extractSentence(i+1, sentence)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func extractSentence(index int, s models.CoreNLPSentence) (models.SentenceResult, error) {
	result := models.SentenceResult{Index: index, Text: sentenceText(s.Tokens)}

	class, err := strconv.Atoi(strings.TrimSpace(s.SentimentValue))
	if err != nil {
		return result, fmt.Errorf("%w: sentence %d: class %q", ErrMalformedAnnotation, index, s.SentimentValue)
	}
	if class < 0 || class >= models.CLASS_COUNT {
		return result, fmt.Errorf("%w: sentence %d: class %d out of range", ErrMalformedAnnotation, index, class)
	}
	if len(s.SentimentDistribution) != models.CLASS_COUNT {
		return result, fmt.Errorf("%w: sentence %d: %d class probabilities", ErrMalformedAnnotation, index, len(s.SentimentDistribution))
	}

	result.PredictedClass = class
	copy(result.Probabilities[:], s.SentimentDistribution)
	result.ClassProb = result.Probabilities[class]

	return result, nil
}

// sentenceText rebuilds the sentence as it appeared in the input.
func sentenceText(tokens []models.CoreNLPToken) string {
	var sb strings.Builder
	for i, tok := range tokens {
		word := tok.OriginalText
		if word == "" {
			word = tok.Word
		}
		sb.WriteString(word)
		if i < len(tokens)-1 {
			sb.WriteString(tok.After)
		}
	}
	return sb.String()
}

func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
