package models

const (
	ROW_WIDTH   = 10
	CLASS_COUNT = 5
)

// Row is one output line. Columns follow OutputHeader.
type Row [ROW_WIDTH]string

var OutputHeader = Row{
	"SentNumber",
	"Classification",
	"Class_Prob",
	"Class_Number",
	"Prob_VeryNeg",
	"Prob_Neg",
	"Prob_Neut",
	"Prob_Pos",
	"Prob_VeryPos",
	"SentenceText",
}

// SentenceResult is the sentiment the pipeline assigned to one sentence.
// Probabilities run from very negative to very positive.
type SentenceResult struct {
	Index          int                  `json:"index"`
	PredictedClass int                  `json:"predicted_class"`
	ClassProb      float64              `json:"class_prob"`
	Probabilities  [CLASS_COUNT]float64 `json:"probabilities"`
	Text           string               `json:"text,omitempty"`
}
