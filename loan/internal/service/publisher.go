package service

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/aterekhov/library-system/pkg/kafka"
)

type Publisher interface {
	Publish(event kafka.LoanEvent) error
}

func NewPublisher(producer sarama.SyncProducer) Publisher {
	if producer == nil {
		return nopPublisher{}
	}
	return &publisherImpl{producer: producer}
}

type publisherImpl struct {
	producer sarama.SyncProducer
}

func (p *publisherImpl) Publish(event kafka.LoanEvent) error {
	event.EventID = uuid.New()
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: kafka.LoanEventsTopic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// nopPublisher keeps the loan workflows alive when the broker is not
// configured.
type nopPublisher struct{}

func (nopPublisher) Publish(kafka.LoanEvent) error { return nil }
