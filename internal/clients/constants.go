package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "corenlp-sentiment-client/1.0 (+https://github.com/spacesedan/corenlp-sentiment)"
)

const (
	CORENLP_ANNOTATORS = "tokenize,ssplit,parse,sentiment"
	CORENLP_WARMUP     = "The pipeline is ready."
)

const (
	VALKEY_RETRIES     = 3
	VALKEY_RETRY_DELAY = 250 * time.Millisecond
)
