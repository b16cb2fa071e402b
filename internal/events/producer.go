package events

import (
	"encoding/json"
	"log"

	"github.com/IBM/sarama"
)

const (
	TopicPaymentClassified = "payment.classified"
	TopicPaymentRejected   = "payment.rejected"
)

var producer sarama.SyncProducer

// Init: ต่อ Kafka ถ้าตั้งค่า KAFKA_BROKER ไว้
// event พวกนี้ให้ฝั่ง chatbot notifier เอาไปแจ้งลูกค้า ส่งไม่ได้ก็แค่ log ไม่ block การ classify
func Init(broker string) {
	if broker == "" {
		log.Println("ไม่ได้ตั้งค่า KAFKA_BROKER — ข้ามการส่ง event")
		return
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	p, err := sarama.NewSyncProducer([]string{broker}, config)
	if err != nil {
		log.Printf("ต่อ Kafka ไม่ได้ (%v) — ทำงานต่อโดยไม่ส่ง event", err)
		return
	}

	producer = p
	log.Printf("เชื่อมต่อ Kafka producer ที่ %s สำเร็จ", broker)
}

type PaymentClassifiedEvent struct {
	PaymentID    uint    `json:"payment_id"`
	CustomerID   uint    `json:"customer_id"`
	Amount       float64 `json:"amount"`
	ClassifiedAs string  `json:"classified_as"` // order | pawn
	TargetID     uint    `json:"target_id"`
	PaymentKind  string  `json:"payment_kind,omitempty"` // interest | redemption | partial (เฉพาะ pawn)
}

type PaymentRejectedEvent struct {
	PaymentID  uint    `json:"payment_id"`
	CustomerID uint    `json:"customer_id"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason"`
}

func PublishPaymentClassified(ev PaymentClassifiedEvent) {
	publish(TopicPaymentClassified, ev)
}

func PublishPaymentRejected(ev PaymentRejectedEvent) {
	publish(TopicPaymentRejected, ev)
}

func publish(topic string, payload any) {
	if producer == nil {
		return
	}

	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal event ไม่สำเร็จ: %v", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(b),
	}

	if _, _, err := producer.SendMessage(msg); err != nil {
		log.Printf("ส่ง event %s ไม่สำเร็จ: %v", topic, err)
	}
}
