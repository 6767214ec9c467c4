package notification

import (
	"context"
	"testing"

	"oficina/internal/config"
	"oficina/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingStatus_IncludesVehicleAndNotes(t *testing.T) {
	msg := BookingStatus(&domain.Booking{
		Type:       "Troca de oleo",
		Status:     domain.BookingConfirmed,
		AdminNotes: "traga o manual",
		Vehicle:    &domain.VehicleRef{Make: "Fiat", Model: "Uno"},
	})

	assert.Equal(t, "Serviço confirmado", msg.Subject)
	assert.Equal(t, "Seu serviço de Troca de oleo para o veículo Fiat Uno foi confirmado. Observações: traga o manual", msg.Body)
}

func TestBookingStatus_WithoutVehicle(t *testing.T) {
	msg := BookingStatus(&domain.Booking{Type: "Pintura", Status: domain.BookingCancelled})

	assert.Equal(t, "Serviço cancelado", msg.Subject)
	assert.NotContains(t, msg.Body, "Observações")
	assert.Contains(t, msg.Body, "seu veículo")
}

func TestPasswordReset(t *testing.T) {
	msg := PasswordReset("http://front/reset-password/abc", 10)
	assert.Contains(t, msg.Body, "http://front/reset-password/abc")
	assert.Contains(t, msg.Body, "10 minutos")
}

func TestNew_FallsBackToNoop(t *testing.T) {
	m := New(config.SMTPConfig{}, zap.NewNop())
	_, ok := m.(NoopMailer)
	require.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), "a@b.c", "s", "b"))
}
