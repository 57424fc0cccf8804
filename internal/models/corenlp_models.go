package models

// CoreNLPDocument is the subset of the CoreNLP server JSON output read by the
// sentiment adapter.
type CoreNLPDocument struct {
	Sentences []CoreNLPSentence `json:"sentences"`
}

type CoreNLPSentence struct {
	Index                 int            `json:"index"`
	SentimentValue        string         `json:"sentimentValue"`
	Sentiment             string         `json:"sentiment"`
	SentimentDistribution []float64      `json:"sentimentDistribution"`
	Tokens                []CoreNLPToken `json:"tokens"`
}

type CoreNLPToken struct {
	Index                int    `json:"index"`
	Word                 string `json:"word"`
	OriginalText         string `json:"originalText"`
	CharacterOffsetBegin int    `json:"characterOffsetBegin"`
	CharacterOffsetEnd   int    `json:"characterOffsetEnd"`
	Before               string `json:"before"`
	After                string `json:"after"`
}
