package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

func SerializeToJSON(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[Utils] Failed to serialize JSON",
			slog.String("error", err.Error()))
		return nil, err
	}
	return data, nil
}

func DeserializeFromJSON(data []byte, v interface{}) error {
	err := json.Unmarshal(data, v)
	if err != nil {
		slog.Warn("[Utils] Failed to deserialize JSON",
			slog.String("error", err.Error()))
	}
	return err
}

// DeserializeOneOrMany decodes either a JSON array of T or a single T.
func DeserializeOneOrMany[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []T
		if err := DeserializeFromJSON(trimmed, &many); err != nil {
			return nil, err
		}
		return many, nil
	}

	var one T
	if err := DeserializeFromJSON(trimmed, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func HandleConsumerError(err error) {
	if err == nil {
		return
	}
	slog.Error("[Utils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
