package store

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
	"gitlab.com/dirk.krummacker/personal-crm/internal/revalidate"
	pkgmodel "gitlab.com/dirk.krummacker/personal-crm/pkg/model"
)

// Settings is the data access for the per-user settings.
type Settings struct {
	base
}

// Get returns the settings of the signed-in user, or nil if there are none yet.
func (s *Settings) Get(ctx context.Context) (*model.Settings, error) {
	h, ok := s.db.Session(ctx)
	if !ok {
		return nil, nil
	}
	return settingsOf(ctx, h)
}

// IsAdmin reports whether the signed-in user carries the admin flag.
func (s *Settings) IsAdmin(ctx context.Context) (bool, error) {
	settings, err := s.Get(ctx)
	if err != nil || settings == nil {
		return false, err
	}
	return settings.IsAdmin, nil
}

// Update stores the QR code link of the signed-in user. The admin flag is never written here.
func (s *Settings) Update(ctx context.Context, in *pkgmodel.UpdateSettingsInput) (*model.Settings, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	h, ok := s.db.Session(ctx)
	if !ok {
		return nil, apperrors.ErrAuthentication
	}
	err := h.Upsert(ctx, database.TableSettings,
		[]database.Value{database.Set("qr_code_link", in.QRCodeLink)},
		"qr_code_link")
	if err != nil {
		return nil, err
	}
	revalidate.Mark(ctx, "/settings")
	return settingsOf(ctx, h)
}

func settingsOf(ctx context.Context, h *database.SessionHandle) (*model.Settings, error) {
	var settings model.Settings
	err := h.Get(ctx, &settings, database.Query{
		Table:   database.TableSettings,
		Columns: "user_id, qr_code_link, is_admin",
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
