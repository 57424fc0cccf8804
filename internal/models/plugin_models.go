package models

// PluginInfo describes the processor to the host application.
type PluginInfo struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Version       string `json:"version"`
	Description   string `json:"description"`
	InputType     string `json:"input_type"`
	OutputType    string `json:"output_type"`
	InheritHeader bool   `json:"inherit_header"`
	Header        Row    `json:"header"`
}

var CoreNLPSentimentPlugin = PluginInfo{
	Name:    "CoreNLP Sentiment Analysis",
	Type:    "Sentiment Analysis",
	Version: "1.1.0",
	Description: "Sends text to a Stanford CoreNLP server (tokenize, ssplit, parse, sentiment) " +
		"and reports the RNN sentiment class of every sentence, from \"very negative\" to \"very positive\".",
	InputType:     "String",
	OutputType:    "OutputArray",
	InheritHeader: false,
	Header:        OutputHeader,
}
