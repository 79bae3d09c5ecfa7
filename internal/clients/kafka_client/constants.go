package kafka_client

import "time"

const (
	KAFKA_TOPIC_REVIEW_TEXT     = "review-text"     // raw reviews waiting to be analysed
	KAFKA_TOPIC_REVIEW_ANALYSIS = "review-analysis" // finished review analyses
)

const (
	MAX_RETRIES  = 5
	RETRY_DELAY  = 2 * time.Second
	POLL_TIMEOUT = 1 * time.Second
)
