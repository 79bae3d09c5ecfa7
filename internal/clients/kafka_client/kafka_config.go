package kafka_client

type KafkaConfig struct {
	Broker          string
	GroupID         string
	Topic           string
	TransactionalID string
}

func GetKafkaConfig(broker, groupID string) KafkaConfig {
	return KafkaConfig{
		Broker:          broker,
		GroupID:         groupID,
		Topic:           KAFKA_TOPIC_REVIEW_TEXT,
		TransactionalID: "reviewlens-producer-1",
	}
}

func (c KafkaConfig) WithTopic(topic string) KafkaConfig {
	c.Topic = topic
	return c
}
