package notification

import (
	"fmt"

	"oficina/internal/domain"
)

// Message is a rendered email ready for Mailer.Send.
type Message struct {
	Subject string
	Body    string
}

func Welcome(name string) Message {
	return Message{
		Subject: "Bem-vindo à Oficina!",
		Body:    fmt.Sprintf("Olá %s! Sua conta foi criada com sucesso. Bem-vindo à nossa oficina!", name),
	}
}

func PasswordReset(link string, ttlMinutes int) Message {
	return Message{
		Subject: "Recuperação de Senha - Oficina",
		Body: fmt.Sprintf(
			"Você solicitou a recuperação de senha. Clique no link para resetar sua senha: %s\n\n"+
				"Este link expira em %d minutos.\n\n"+
				"Se você não solicitou esta recuperação, ignore este email.",
			link, ttlMinutes),
	}
}

var statusText = map[domain.BookingStatus]string{
	domain.BookingConfirmed:  "confirmado",
	domain.BookingInProgress: "iniciado",
	domain.BookingCompleted:  "concluído",
	domain.BookingCancelled:  "cancelado",
}

// BookingStatus describes a status change of b to its owner. b.Vehicle may be nil.
func BookingStatus(b *domain.Booking) Message {
	text, ok := statusText[b.Status]
	if !ok {
		text = string(b.Status)
	}

	vehicle := "seu veículo"
	if b.Vehicle != nil {
		vehicle = fmt.Sprintf("o veículo %s %s", b.Vehicle.Make, b.Vehicle.Model)
	}

	body := fmt.Sprintf("Seu serviço de %s para %s foi %s.", b.Type, vehicle, text)
	if b.AdminNotes != "" {
		body += " Observações: " + b.AdminNotes
	}
	return Message{Subject: "Serviço " + text, Body: body}
}
