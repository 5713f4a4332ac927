package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/platform/backend"
)

// SeedFile is the JSON document accepted by the seed command
type SeedFile struct {
	Companies     []giftaid.Option    `json:"companies"`
	Products      []giftaid.Option    `json:"products"`
	Transactions  []giftaid.RawRecord `json:"transactions"`
	UserCompanies []UserCompany       `json:"userCompanies"`
}

// UserCompany maps a user to the company their review sessions default to
type UserCompany struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
}

func readSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var file SeedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, r := range file.Transactions {
		if r.ID == "" || r.InvoiceDate == "" {
			return nil, fmt.Errorf("transaction %d: id and invoiceDate are required", i)
		}
	}
	return &file, nil
}

// seed writes companies before transactions so foreign keys resolve
func seed(ctx context.Context, store backend.Store, file *SeedFile, logger *zap.Logger) error {
	if err := store.SaveCompanies(ctx, file.Companies); err != nil {
		return fmt.Errorf("save companies: %w", err)
	}
	if err := store.SaveProducts(ctx, file.Products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	if err := store.SaveTransactions(ctx, file.Transactions); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}

	if len(file.UserCompanies) > 0 {
		assigner, ok := store.(backend.UserCompanyAssigner)
		if !ok {
			logger.Warn("Store keeps no user companies, set custom:companyId on the Cognito users instead",
				zap.Int("skipped", len(file.UserCompanies)),
			)
		} else {
			for _, uc := range file.UserCompanies {
				if err := assigner.AssignUserCompany(ctx, uc.UserID, uc.CompanyID); err != nil {
					return fmt.Errorf("assign company of %s: %w", uc.UserID, err)
				}
			}
		}
	}

	logger.Info("Seed data loaded",
		zap.Int("companies", len(file.Companies)),
		zap.Int("products", len(file.Products)),
		zap.Int("transactions", len(file.Transactions)),
		zap.Int("userCompanies", len(file.UserCompanies)),
	)
	return nil
}
