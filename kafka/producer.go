package kafka

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Producer publishes domain events. A nil Producer is a valid no-op, so the
// backend runs fine without a broker configured.
type Producer struct {
	producer sarama.SyncProducer
}

// NewProducer connects to the broker, waiting for it to come up like the
// rest of the stack does on a cold docker-compose start.
func NewProducer(broker string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	var producer sarama.SyncProducer
	var err error
	for i := 1; i <= 10; i++ {
		producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.Println("Kafka producer initialized")
			return &Producer{producer: producer}, nil
		}
		log.Printf("Waiting for Kafka... (%d/10) Error: %v", i, err)
		time.Sleep(5 * time.Second)
	}
	return nil, err
}

func (p *Producer) publish(topic string, event any) {
	if p == nil || p.producer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", topic, err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("Failed to send %s Kafka message: %v", topic, err)
		return
	}
	log.Printf("Published %s event: %s", topic, string(data))
}

func (p *Producer) PublishOrderCreatedEvent(event any) {
	p.publish("order.created", event)
}

func (p *Producer) PublishPaymentCompletedEvent(event any) {
	p.publish("payment.completed", event)
}

func (p *Producer) PublishPaymentRefundedEvent(event any) {
	p.publish("payment.refunded", event)
}

// Close releases the underlying sarama producer.
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
