package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/delispi/delispi-backend/pkg/db/models"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes address book operations for a user.
type Service interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*AddressDTO, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
}

// AddressInput is the validated payload to create or update an address.
type AddressInput struct {
	FirstName  string
	LastName   string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// AddressDTO is the API representation of an address.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
}

// ToDTO maps an address model to its API shape.
func ToDTO(address *models.Address) *AddressDTO {
	if address == nil {
		return nil
	}
	return &AddressDTO{
		ID:         address.ID,
		FirstName:  address.FirstName,
		LastName:   address.LastName,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		IsDefault:  address.IsDefault,
	}
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an address service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateAddress stores a new address. The first address for a user
// always becomes the default. When the payload asks for default, the
// previous default is cleared in the same transaction so the user never
// ends up with two.
func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	address := modelFromInput(userID, input)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		address.IsDefault = input.IsDefault || count == 0

		if address.IsDefault {
			if err := repo.ClearDefaults(ctx, userID); err != nil {
				return err
			}
		}
		_, err = repo.Create(ctx, address)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating address")
	}
	return ToDTO(address), nil
}

// UpdateAddress mutates an existing address owned by the user.
func (s *service) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*AddressDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		address, err := repo.FindByIDForUser(ctx, addressID, userID)
		if err != nil {
			return err
		}

		address.FirstName = strings.TrimSpace(input.FirstName)
		address.LastName = strings.TrimSpace(input.LastName)
		address.Line1 = strings.TrimSpace(input.Line1)
		address.Line2 = input.Line2
		address.City = strings.TrimSpace(input.City)
		address.State = strings.TrimSpace(input.State)
		address.PostalCode = strings.TrimSpace(input.PostalCode)
		address.Country = strings.TrimSpace(input.Country)

		if input.IsDefault && !address.IsDefault {
			if err := repo.ClearDefaults(ctx, userID); err != nil {
				return err
			}
			address.IsDefault = true
		}

		updated, err = repo.Update(ctx, address)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating address")
	}
	return ToDTO(updated), nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.repo.Delete(ctx, addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting address")
	}
	return nil
}

// SetDefaultAddress promotes the address to default. Clearing the old
// default and setting the new one happen in one transaction; no
// interleaving can leave the user with zero or two defaults.
func (s *service) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	var promoted *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		address, err := repo.FindByIDForUser(ctx, addressID, userID)
		if err != nil {
			return err
		}

		if err := repo.ClearDefaults(ctx, userID); err != nil {
			return err
		}
		if err := repo.SetDefault(ctx, addressID, userID); err != nil {
			return err
		}

		address.IsDefault = true
		promoted = address
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "setting default address")
	}
	return ToDTO(promoted), nil
}

func (s *service) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	address, err := s.repo.FindByIDForUser(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	return ToDTO(address), nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}
	out := make([]AddressDTO, 0, len(addresses))
	for i := range addresses {
		out = append(out, *ToDTO(&addresses[i]))
	}
	return out, nil
}

func validateInput(input AddressInput) error {
	required := map[string]string{
		"first_name":  input.FirstName,
		"last_name":   input.LastName,
		"line1":       input.Line1,
		"city":        input.City,
		"state":       input.State,
		"postal_code": input.PostalCode,
		"country":     input.Country,
	}
	var missing []string
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required address fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}

func modelFromInput(userID uuid.UUID, input AddressInput) *models.Address {
	return &models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
		IsDefault:  input.IsDefault,
	}
}
