package registry

import (
	"encoding/base64"
	"time"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

const fallbackNote = "FALLBACK MODE - Changes won't be saved to the remote store"

const (
	fallbackAdminUser     = "admin"
	fallbackAdminPassword = "atelier2026"
)

// fallbackDocument is the minimal dataset served when the remote store is
// unreachable and the mirror is empty: one admin account and one seed quote,
// tagged so every reader can see the data is not durable.
func fallbackDocument(now time.Time) *domain.Document {
	password, err := domain.HashPassword(fallbackAdminPassword)
	if err != nil {
		// bcrypt only fails on an invalid cost; fall back to the legacy
		// encoding, which VerifyPassword still accepts.
		password = base64.StdEncoding.EncodeToString([]byte(fallbackAdminPassword))
	}

	return &domain.Document{
		Users: []domain.User{{
			ID:        domain.SeedUserID,
			Username:  fallbackAdminUser,
			Name:      "Admin User",
			Role:      domain.RoleAdmin,
			Password:  password,
			CreatedAt: now,
		}},
		Products:  []domain.Product{},
		Orders:    []domain.Order{},
		Customers: []domain.Customer{},
		Quotes: []domain.Quote{{
			ID:        1,
			Text:      "Architecture is the learned game, correct and magnificent, of forms assembled in the light.",
			Author:    "Le Corbusier",
			CreatedAt: now,
		}},
		Metadata: domain.Metadata{
			LastUpdated: now,
			Version:     "1.0",
			Note:        fallbackNote,
		},
	}
}
