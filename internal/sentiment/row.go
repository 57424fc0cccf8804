package sentiment

import (
	"strconv"

	"github.com/spacesedan/corenlp-sentiment/internal/models"
)

// FormatRow lays out one sentence in the column order of models.OutputHeader.
func FormatRow(sentenceIndex, predictedClass int, classProb float64, probs [models.CLASS_COUNT]float64, text string, includeText bool) models.Row {
	var row models.Row

	row[0] = strconv.Itoa(sentenceIndex)
	row[1] = GetClassification(float64(predictedClass))
	row[2] = formatFloat(classProb)
	row[3] = strconv.Itoa(predictedClass)
	for i, p := range probs {
		row[4+i] = formatFloat(p)
	}
	if includeText {
		row[9] = text
	}

	return row
}

func FormatSentence(s models.SentenceResult, includeText bool) models.Row {
	return FormatRow(s.Index, s.PredictedClass, s.ClassProb, s.Probabilities, s.Text, includeText)
}

// EmptyRow is the placeholder emitted for blank documents.
func EmptyRow() models.Row {
	return models.Row{}
}
