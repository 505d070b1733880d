package api

import (
	"encoding/json"
	"fmt"
	"os"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
)

// LoadSnapshot reads a pre-generated status document, the same JSON
// array GET /api/status returns. The dashboard seeds its collection
// from it before the first live fetch has completed.
func LoadSnapshot(path string) ([]entities.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var certs []entities.Certificate
	if err := json.Unmarshal(data, &certs); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return certs, nil
}
