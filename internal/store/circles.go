package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
	"gitlab.com/dirk.krummacker/personal-crm/internal/revalidate"
	pkgmodel "gitlab.com/dirk.krummacker/personal-crm/pkg/model"
)

const circleColumns = "id, user_id, name, color, description, icon, favorite, created_at"

// Circles is the data access for circles.
type Circles struct {
	base
}

// List returns the user's circles, newest first, each with the number of contacts in it. The
// numbers come from a single grouped count.
func (s *Circles) List(ctx context.Context) ([]model.CircleView, error) {
	h, ok := s.db.Session(ctx)
	if !ok {
		return []model.CircleView{}, nil
	}
	var circles []model.Circle
	err := h.Select(ctx, &circles, database.Query{
		Table:   database.TableCircles,
		Columns: circleColumns,
		OrderBy: "created_at DESC",
	})
	if err != nil || len(circles) == 0 {
		return []model.CircleView{}, err
	}

	counts, err := h.Tally(ctx, database.TableContactsCircle, "circle_id")
	if err != nil {
		return []model.CircleView{}, err
	}
	views := make([]model.CircleView, len(circles))
	for i, c := range circles {
		views[i] = model.CircleView{Circle: c, ContactCount: counts[c.ID]}
	}
	return views, nil
}

// ByID returns the circle with the given id, or nil if the user has no such circle.
func (s *Circles) ByID(ctx context.Context, id string) (*model.CircleView, error) {
	h, ok := s.db.Session(ctx)
	if !ok || uuid.Validate(id) != nil {
		return nil, nil
	}
	return circleView(ctx, h, id)
}

// CountAll returns the number of circles of all users.
func (s *Circles) CountAll(ctx context.Context, p *database.PrivilegedHandle) (int, error) {
	return p.Count(ctx, database.TableCircles)
}

// Create adds a circle for the signed-in user. A name the user already uses is reported as a
// duplicate StoreError.
func (s *Circles) Create(ctx context.Context, in *pkgmodel.CreateCircleInput) (*model.CircleView, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	h, ok := s.db.Session(ctx)
	if !ok {
		return nil, apperrors.ErrAuthentication
	}

	circle := model.Circle{
		ID:          uuid.NewString(),
		UserID:      h.UserID(),
		Name:        in.Name,
		Color:       in.Color,
		Description: in.Description,
		Icon:        in.Icon,
		Favorite:    in.Favorite,
		CreatedAt:   s.timestamp(),
	}
	err := h.Insert(ctx, database.TableCircles,
		database.Set("id", circle.ID),
		database.Set("name", circle.Name),
		database.Set("color", circle.Color),
		database.Set("description", circle.Description),
		database.Set("icon", circle.Icon),
		database.Set("favorite", circle.Favorite),
		database.Set("created_at", circle.CreatedAt),
	)
	if err != nil {
		return nil, err
	}
	revalidate.Mark(ctx, "/circles", "/circles/"+circle.ID)
	return &model.CircleView{Circle: circle}, nil
}

// Update overwrites a circle of the signed-in user. It returns nil if the user has no such circle.
func (s *Circles) Update(ctx context.Context, in *pkgmodel.UpdateCircleInput) (*model.CircleView, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	h, ok := s.db.Session(ctx)
	if !ok {
		return nil, apperrors.ErrAuthentication
	}

	n, err := h.Update(ctx, database.TableCircles, []database.Value{
		database.Set("name", in.Name),
		database.Set("color", in.Color),
		database.Set("description", in.Description),
		database.Set("icon", in.Icon),
		database.Set("favorite", in.Favorite),
	}, database.Eq("id", in.ID))
	if err != nil || n == 0 {
		return nil, err
	}
	// Contacts show the circle's name and color.
	revalidate.Mark(ctx, "/circles", "/circles/"+in.ID, "/contacts")
	return circleView(ctx, h, in.ID)
}

// Delete removes a circle of the signed-in user. Its contacts stay, only their membership goes.
func (s *Circles) Delete(ctx context.Context, in *pkgmodel.DeleteCircleInput) (bool, error) {
	if err := s.validator.Validate(in); err != nil {
		return false, err
	}
	h, ok := s.db.Session(ctx)
	if !ok {
		return false, apperrors.ErrAuthentication
	}
	n, err := h.Delete(ctx, database.TableCircles, database.Eq("id", in.ID))
	if err != nil || n == 0 {
		return false, err
	}
	revalidate.Mark(ctx, "/circles", "/circles/"+in.ID, "/contacts")
	return true, nil
}

func circleView(ctx context.Context, h *database.SessionHandle, id string) (*model.CircleView, error) {
	var circle model.Circle
	err := h.Get(ctx, &circle, database.Query{
		Table:   database.TableCircles,
		Columns: circleColumns,
		Where:   []database.Cond{database.Eq("id", id)},
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	count, err := h.Count(ctx, database.TableContactsCircle, database.Eq("circle_id", id))
	if err != nil {
		return nil, err
	}
	return &model.CircleView{Circle: circle, ContactCount: count}, nil
}
