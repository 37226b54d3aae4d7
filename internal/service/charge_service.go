package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pixflow/internal/cache"
	apperrors "pixflow/internal/errors"
	"pixflow/internal/gateway"
	"pixflow/internal/model"
	"pixflow/internal/repository"
	"pixflow/internal/vault"
)

// csvHeader is the fixed export header row.
var csvHeader = []string{"id", "client", "value", "status", "created_at"}

// ChargeService handles the per-user charge ledger.
type ChargeService interface {
	Create(ctx context.Context, ownerID uint, client, value, message string) (*model.Charge, error)
	List(ctx context.Context, ownerID uint) ([]model.Charge, error)
	UpdateStatus(ctx context.Context, ownerID, chargeID uint, status model.ChargeStatus) error
	Refund(ctx context.Context, ownerID, chargeID uint) error
	ExportCSV(ctx context.Context, ownerID uint) ([]byte, error)
}

type chargeService struct {
	chargeRepo repository.ChargeRepository
	userRepo   repository.UserRepository
	vault      *vault.Vault
	gateway    gateway.Client
	cache      *cache.Client
}

// NewChargeService creates a new charge service.
func NewChargeService(
	chargeRepo repository.ChargeRepository,
	userRepo repository.UserRepository,
	vault *vault.Vault,
	gateway gateway.Client,
	cache *cache.Client,
) ChargeService {
	return &chargeService{
		chargeRepo: chargeRepo,
		userRepo:   userRepo,
		vault:      vault,
		gateway:    gateway,
		cache:      cache,
	}
}

// Create validates input, requires a readable gateway credential, and persists
// the charge as pending. Charge submission to the gateway itself is still
// stubbed, but the credential must decrypt so a misconfigured tenant fails
// here instead of at payment time.
func (s *chargeService) Create(ctx context.Context, ownerID uint, client, value, message string) (*model.Charge, error) {
	client = strings.TrimSpace(client)
	value = strings.TrimSpace(value)
	message = strings.TrimSpace(message)

	if client == "" || value == "" {
		return nil, apperrors.ErrValidation
	}

	amount, err := decimal.NewFromString(value)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrValueInvalid
	}

	if _, err := s.ownerCredential(ctx, ownerID); err != nil {
		return nil, err
	}

	charge := &model.Charge{
		UserID:  ownerID,
		Client:  client,
		Value:   amount.String(),
		Message: message,
		Status:  model.ChargeStatusPending,
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}

	s.invalidateStats(ctx, ownerID)
	return charge, nil
}

// List returns the owner's charges, newest first.
func (s *chargeService) List(ctx context.Context, ownerID uint) ([]model.Charge, error) {
	return s.chargeRepo.ListByOwner(ctx, ownerID)
}

// UpdateStatus sets a charge to one of the canonical statuses. A charge owned
// by someone else reports not-found, identical to a missing id.
func (s *chargeService) UpdateStatus(ctx context.Context, ownerID, chargeID uint, status model.ChargeStatus) error {
	if !status.IsCanonical() {
		return apperrors.ErrInvalidStatus
	}

	charge, err := s.findOwned(ctx, ownerID, chargeID)
	if err != nil {
		return err
	}

	charge.Status = status
	if err := s.chargeRepo.Update(ctx, charge); err != nil {
		return fmt.Errorf("update charge: %w", err)
	}

	s.invalidateStats(ctx, ownerID)
	return nil
}

// Refund moves an approved charge to refunded via the gateway. Gateway
// results arrive as typed errors and are mapped to user-facing ones here.
func (s *chargeService) Refund(ctx context.Context, ownerID, chargeID uint) error {
	charge, err := s.findOwned(ctx, ownerID, chargeID)
	if err != nil {
		return err
	}

	credential, err := s.ownerCredential(ctx, ownerID)
	if err != nil {
		return err
	}

	if charge.Status != model.ChargeStatusApproved {
		return apperrors.ErrInvalidState
	}

	if err := s.gateway.Refund(ctx, credential, charge.ID); err != nil {
		switch err {
		case gateway.ErrAlreadyRefunded:
			return apperrors.ErrRefundAlreadyDone
		case gateway.ErrRefundWindowExpired:
			return apperrors.ErrRefundWindowExpired
		default:
			return apperrors.ErrRefundFailed
		}
	}

	charge.Status = model.ChargeStatusRefunded
	if err := s.chargeRepo.Update(ctx, charge); err != nil {
		return fmt.Errorf("update charge: %w", err)
	}

	s.invalidateStats(ctx, ownerID)
	return nil
}

// ExportCSV renders the owner's charges as CSV, newest first.
func (s *chargeService) ExportCSV(ctx context.Context, ownerID uint) ([]byte, error) {
	charges, err := s.chargeRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range charges {
		record := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Client,
			c.Value,
			string(c.Status),
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *chargeService) findOwned(ctx context.Context, ownerID, chargeID uint) (*model.Charge, error) {
	charge, err := s.chargeRepo.FindByIDForOwner(ctx, chargeID, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrChargeNotFound
		}
		return nil, fmt.Errorf("find charge: %w", err)
	}
	return charge, nil
}

// ownerCredential loads and decrypts the owner's gateway credential.
func (s *chargeService) ownerCredential(ctx context.Context, ownerID uint) (string, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("load owner: %w", err)
	}

	if !owner.HasGatewayCredential() {
		return "", apperrors.ErrCredentialMissing
	}

	credential, err := s.vault.Decrypt(owner.GatewayCredential)
	if err != nil {
		return "", err
	}
	return credential, nil
}

func (s *chargeService) invalidateStats(ctx context.Context, ownerID uint) {
	_ = s.cache.Delete(ctx, statsCacheKey(ownerID))
}
