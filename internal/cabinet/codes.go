package cabinet

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"
)

// VerificationCodes — одноразовые коды подтверждения email,
// живут в памяти процесса ограниченное время.
type VerificationCodes struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]codeEntry
}

type codeEntry struct {
	code      string
	expiresAt time.Time
}

func NewVerificationCodes(ttl time.Duration) *VerificationCodes {
	return &VerificationCodes{
		ttl:   ttl,
		codes: make(map[string]codeEntry),
	}
}

// Issue генерирует шестизначный код для email, заменяя предыдущий.
func (v *VerificationCodes) Issue(email string) (string, error) {
	code, err := generateOtpCode(6)
	if err != nil {
		return "", err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.codes[email] = codeEntry{code: code, expiresAt: time.Now().Add(v.ttl)}
	return code, nil
}

// Verify проверяет код и удаляет его при успехе.
func (v *VerificationCodes) Verify(email, code string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.codes[email]
	if !ok || time.Now().After(e.expiresAt) || e.code != code {
		return false
	}
	delete(v.codes, email)
	return true
}

func generateOtpCode(length int) (string, error) {
	const digits = "0123456789"
	otp := make([]byte, length)
	for i := range otp {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		otp[i] = digits[n.Int64()]
	}
	return string(otp), nil
}
