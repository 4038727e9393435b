package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"cutine-backend/config"
	"cutine-backend/models"
	"cutine-backend/storage"
	"cutine-backend/store"
	"cutine-backend/utils"
)

var ErrInvalidApplication = errors.New("invalid partner application")

// PartnerForm is what a salon submits to become a partner.
type PartnerForm struct {
	SalonName  string `json:"salonName" binding:"required"`
	OwnerName  string `json:"ownerName" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	BookingURL string `json:"bookingUrl"`
	Message    string `json:"message"`
}

// PartnerService stores partner applications remotely when a database is
// configured and falls back to a local slot otherwise.
type PartnerService struct {
	db    *gorm.DB
	local *store.Journal[models.PartnerApplication]
	now   func() time.Time
	log   *config.Logger
}

// NewPartnerService migrates the remote table when db is non-nil.
func NewPartnerService(db *gorm.DB, slot storage.Slot, log *config.Logger) (*PartnerService, error) {
	if log == nil {
		log = config.NopLogger()
	}
	if db != nil {
		if err := db.AutoMigrate(&models.PartnerApplication{}); err != nil {
			return nil, fmt.Errorf("migrate partner_applications: %w", err)
		}
	}
	log = log.With("service", "PartnerService")
	return &PartnerService{
		db:    db,
		local: store.NewJournal[models.PartnerApplication](slot, store.PartnerApplicationsKey, 0, log),
		now:   time.Now,
		log:   log,
	}, nil
}

func validateForm(f *PartnerForm) error {
	f.SalonName = strings.TrimSpace(f.SalonName)
	f.OwnerName = strings.TrimSpace(f.OwnerName)
	f.Address = strings.TrimSpace(f.Address)
	f.BookingURL = strings.TrimSpace(f.BookingURL)
	f.Message = strings.TrimSpace(f.Message)
	switch {
	case f.SalonName == "":
		return fmt.Errorf("%w: salon name is required", ErrInvalidApplication)
	case f.OwnerName == "":
		return fmt.Errorf("%w: owner name is required", ErrInvalidApplication)
	case !utils.ValidatePhone(f.Phone):
		return fmt.Errorf("%w: invalid phone number", ErrInvalidApplication)
	case f.Address == "":
		return fmt.Errorf("%w: address is required", ErrInvalidApplication)
	case f.BookingURL != "" && !utils.ValidateURL(f.BookingURL):
		return fmt.Errorf("%w: booking url must be an http(s) address", ErrInvalidApplication)
	}
	f.Phone = utils.NormalizePhone(f.Phone)
	return nil
}

// Submit records an application and returns its id. Only validation errors
// are returned; a failing remote store falls back to the local slot, whose
// ids look like local_<unix ms>.
func (s *PartnerService) Submit(ctx context.Context, form PartnerForm) (string, error) {
	if err := validateForm(&form); err != nil {
		return "", err
	}
	app := models.PartnerApplication{
		SalonName:  form.SalonName,
		OwnerName:  form.OwnerName,
		Phone:      form.Phone,
		Address:    form.Address,
		BookingURL: form.BookingURL,
		Message:    form.Message,
		Status:     models.PartnerPending,
		CreatedAt:  s.now().UTC(),
	}

	if s.db != nil {
		err := s.db.WithContext(ctx).Create(&app).Error
		if err == nil {
			s.log.Info("partner application stored", "id", app.ID)
			return app.ID, nil
		}
		s.log.Warn("remote partner store failed, keeping locally", "error", err)
	}

	app.ID = fmt.Sprintf("local_%d", s.now().UnixMilli())
	s.local.Append(ctx, app)
	s.log.Info("partner application kept locally", "id", app.ID)
	return app.ID, nil
}

// Local lists applications kept in the local slot.
func (s *PartnerService) Local(ctx context.Context) []models.PartnerApplication {
	return s.local.Entries(ctx)
}

// ClearLocal drops the locally kept applications. Rows already in the
// partner database are not touched.
func (s *PartnerService) ClearLocal(ctx context.Context) {
	s.local.Clear(ctx)
}

// IsLocalID reports whether id was assigned by the local fallback.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, "local_")
}
