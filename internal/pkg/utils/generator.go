package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"telemed-service/internal/pkg/constvars"
	"time"

	"github.com/google/uuid"
)

func GenerateTemporaryPassword() (string, error) {
	charset := constvars.TemporaryPasswordCharset
	max := big.NewInt(int64(len(charset)))

	password := make([]byte, constvars.TemporaryPasswordLength)
	for i := range password {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		password[i] = charset[num.Int64()]
	}

	return string(password), nil
}

func GenerateID() string {
	return uuid.NewString()
}

// GenerateReconciliationObjectName returns the storage key of a saga failure report.
func GenerateReconciliationObjectName(nationalID, sagaID string, at time.Time) string {
	return fmt.Sprintf("reconciliation/%s/%s-%d.json", nationalID, sagaID, at.Unix())
}
