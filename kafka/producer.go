package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"github.com/imcgaunn/to-webp/models"
)

type Producer interface {
	SendOutcome(ctx context.Context, topic string, message *OutcomeMessage) error
	Close() error
}

// OutcomeMessage is published once per converted (or failed) file.
type OutcomeMessage struct {
	RunID           string `json:"run_id"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Status          string `json:"status"`
	SizeBytes       int64  `json:"size_bytes,omitempty"`
	ErrorKind       string `json:"error_kind,omitempty"`
	ErrorDetail     string `json:"error_detail,omitempty"`
	DurationMS      int64  `json:"duration_ms"`
}

func NewOutcomeMessage(runID string, o models.ConversionOutcome) *OutcomeMessage {
	return &OutcomeMessage{
		RunID:           runID,
		SourcePath:      o.Task.SourcePath,
		DestinationPath: o.Task.DestinationPath,
		Status:          string(o.Status),
		SizeBytes:       o.SizeBytes,
		ErrorKind:       string(o.ErrorKind),
		ErrorDetail:     o.ErrorDetail,
		DurationMS:      o.Duration.Milliseconds(),
	}
}

type producer struct {
	producer sarama.SyncProducer
}

func NewProducer(brokers []string) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &producer{producer: p}, nil
}

// NewProducerFromSync wraps an existing sarama producer.
func NewProducerFromSync(p sarama.SyncProducer) Producer {
	return &producer{producer: p}
}

func (p *producer) SendOutcome(ctx context.Context, topic string, message *OutcomeMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(message.RunID + ":" + message.SourcePath),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("status"), Value: []byte(message.Status)},
		},
	}

	_, _, err = p.producer.SendMessage(msg)
	return err
}

func (p *producer) Close() error {
	return p.producer.Close()
}
