package create_booking

import (
	"crypto/rand"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Алфавит кода без визуально похожих символов (0/O, 1/I/L)
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// generateBookingCode генерирует человекочитаемый код вида "APT-7K3MQ9"
// Уникальность гарантирует не генератор, а уникальный индекс в БД:
// коллизия ловится при вставке и код генерируется заново
func generateBookingCode() (string, error) {
	buf := make([]byte, domain.BookingCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}

	return "APT-" + string(buf), nil
}
