package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailSender manda el correo de bienvenida.
type EmailSender interface {
	SendWelcome(to, name string) error
}

// WhatsAppSender manda la plantilla de bienvenida si el lead dejó teléfono.
type WhatsAppSender interface {
	SendWelcome(phone, name string) error
}

type Worker struct {
	Channel  *amqp.Channel
	Email    EmailSender
	WhatsApp WhatsAppSender
}

func NewWorker(ch *amqp.Channel, email EmailSender, whatsapp WhatsAppSender) *Worker {
	return &Worker{Channel: ch, Email: email, WhatsApp: whatsapp}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack manual, más seguro
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("❌ [worker] falla al registrar consumidor: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload WelcomePayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [worker] JSON inválido: %s", err)
				// Mensaje podrido: lo rechazamos sin requeue para no trabar la fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [worker] bienvenida para %s", payload.Email)

			if err := w.process(context.Background(), payload); err != nil {
				log.Printf("❌ [worker] falla al enviar bienvenida: %s", err)
				d.Nack(false, false) // va a la DLQ
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] worker de bienvenida escuchando en '%s'", queueName)
	<-forever
}

func (w *Worker) process(_ context.Context, payload WelcomePayload) error {
	if err := w.Email.SendWelcome(payload.Email, payload.Name); err != nil {
		return err
	}

	// WhatsApp es opcional: solo si el lead dejó teléfono.
	if payload.Phone != "" && w.WhatsApp != nil {
		if err := w.WhatsApp.SendWelcome(payload.Phone, payload.Name); err != nil {
			// El correo ya salió; no mandamos el mensaje a la DLQ por esto.
			log.Printf("⚠️ [worker] WhatsApp falló para %s: %v", payload.Phone, err)
		}
	}

	return nil
}
