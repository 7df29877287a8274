package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
	"gitlab.com/dirk.krummacker/personal-crm/internal/revalidate"
	pkgmodel "gitlab.com/dirk.krummacker/personal-crm/pkg/model"
)

const contactColumns = "id, user_id, name, profile_link, reason, favorite, created_at"

// Contacts is the data access for contacts and their circle memberships.
type Contacts struct {
	base
}

// List returns the user's contacts, newest first, each with its circles.
func (s *Contacts) List(ctx context.Context) ([]model.ContactView, error) {
	h, ok := s.db.Session(ctx)
	if !ok {
		return []model.ContactView{}, nil
	}
	var contacts []model.Contact
	err := h.Select(ctx, &contacts, database.Query{
		Table:   database.TableContacts,
		Columns: contactColumns,
		OrderBy: "created_at DESC",
	})
	if err != nil {
		return []model.ContactView{}, err
	}
	return attachCircles(ctx, h, contacts, nil)
}

// ByID returns the contact with the given id, or nil if the user has no such contact.
func (s *Contacts) ByID(ctx context.Context, id string) (*model.ContactView, error) {
	h, ok := s.db.Session(ctx)
	if !ok || uuid.Validate(id) != nil {
		return nil, nil
	}
	return contactView(ctx, h, id)
}

// InCircle returns the user's contacts that belong to the circle, newest first.
func (s *Contacts) InCircle(ctx context.Context, circleID string) ([]model.ContactView, error) {
	h, ok := s.db.Session(ctx)
	if !ok || uuid.Validate(circleID) != nil {
		return []model.ContactView{}, nil
	}
	var links []model.ContactCircle
	err := h.Select(ctx, &links, database.Query{
		Table:   database.TableContactsCircle,
		Columns: "contact_id, circle_id",
		Where:   []database.Cond{database.Eq("circle_id", circleID)},
	})
	if err != nil || len(links) == 0 {
		return []model.ContactView{}, err
	}
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ContactID
	}

	var contacts []model.Contact
	err = h.Select(ctx, &contacts, database.Query{
		Table:   database.TableContacts,
		Columns: contactColumns,
		Where:   []database.Cond{database.In("id", ids)},
		OrderBy: "created_at DESC",
	})
	if err != nil {
		return []model.ContactView{}, err
	}
	return attachCircles(ctx, h, contacts, ids)
}

// CountAll returns the number of contacts of all users.
func (s *Contacts) CountAll(ctx context.Context, p *database.PrivilegedHandle) (int, error) {
	return p.Count(ctx, database.TableContacts)
}

// Create adds a contact for the signed-in user and puts it into the given circles.
func (s *Contacts) Create(ctx context.Context, in *pkgmodel.CreateContactInput) (*model.ContactView, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	h, ok := s.db.Session(ctx)
	if !ok {
		return nil, apperrors.ErrAuthentication
	}

	view := &model.ContactView{Contact: model.Contact{
		ID:          uuid.NewString(),
		UserID:      h.UserID(),
		Name:        in.Name,
		ProfileLink: in.ProfileLink,
		Reason:      in.Reason,
		Favorite:    in.Favorite,
		CreatedAt:   s.timestamp(),
	}}
	err := h.InTx(ctx, func(tx *database.SessionHandle) error {
		refs, err := ownedCircles(ctx, tx, in.CircleIDs)
		if err != nil {
			return err
		}
		err = tx.Insert(ctx, database.TableContacts,
			database.Set("id", view.ID),
			database.Set("name", view.Name),
			database.Set("profile_link", view.ProfileLink),
			database.Set("reason", view.Reason),
			database.Set("favorite", view.Favorite),
			database.Set("created_at", view.CreatedAt),
		)
		if err != nil {
			return err
		}
		if err := linkCircles(ctx, tx, view.ID, in.CircleIDs, view.CreatedAt); err != nil {
			return err
		}
		view.Circles = refs
		return nil
	})
	if err != nil {
		return nil, err
	}
	markContact(ctx, view.ID, in.CircleIDs)
	return view, nil
}

// Update overwrites a contact of the signed-in user. A nil CircleIDs keeps the memberships,
// otherwise they are replaced. It returns nil if the user has no such contact.
func (s *Contacts) Update(ctx context.Context, in *pkgmodel.UpdateContactInput) (*model.ContactView, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	h, ok := s.db.Session(ctx)
	if !ok {
		return nil, apperrors.ErrAuthentication
	}

	var view *model.ContactView
	var previous []string
	err := h.InTx(ctx, func(tx *database.SessionHandle) error {
		// The contact is looked at first: an unknown contact is not found, whatever circles are
		// named.
		n, err := tx.Update(ctx, database.TableContacts, []database.Value{
			database.Set("name", in.Name),
			database.Set("profile_link", in.ProfileLink),
			database.Set("reason", in.Reason),
			database.Set("favorite", in.Favorite),
		}, database.Eq("id", in.ID))
		if err != nil || n == 0 {
			return err
		}
		if in.CircleIDs != nil {
			if _, err := ownedCircles(ctx, tx, *in.CircleIDs); err != nil {
				return err
			}
			if previous, err = circleIDsOf(ctx, tx, in.ID); err != nil {
				return err
			}
			if _, err := tx.Delete(ctx, database.TableContactsCircle, database.Eq("contact_id", in.ID)); err != nil {
				return err
			}
			if err := linkCircles(ctx, tx, in.ID, *in.CircleIDs, s.timestamp()); err != nil {
				return err
			}
		}
		view, err = contactView(ctx, tx, in.ID)
		return err
	})
	if err != nil || view == nil {
		return nil, err
	}
	markContact(ctx, view.ID, append(previous, circleRefIDs(view.Circles)...))
	return view, nil
}

// Delete removes a contact of the signed-in user. It reports false if the user has no such
// contact. Circle memberships go with it.
func (s *Contacts) Delete(ctx context.Context, in *pkgmodel.DeleteContactInput) (bool, error) {
	if err := s.validator.Validate(in); err != nil {
		return false, err
	}
	h, ok := s.db.Session(ctx)
	if !ok {
		return false, apperrors.ErrAuthentication
	}
	n, err := h.Delete(ctx, database.TableContacts, database.Eq("id", in.ID))
	if err != nil || n == 0 {
		return false, err
	}
	revalidate.Mark(ctx, "/contacts", "/contacts/"+in.ID, "/circles")
	return true, nil
}

// contactView loads one contact with its circles. It returns nil if there is no such contact.
func contactView(ctx context.Context, h *database.SessionHandle, id string) (*model.ContactView, error) {
	var contact model.Contact
	err := h.Get(ctx, &contact, database.Query{
		Table:   database.TableContacts,
		Columns: contactColumns,
		Where:   []database.Cond{database.Eq("id", id)},
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	views, err := attachCircles(ctx, h, []model.Contact{contact}, []string{id})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// attachCircles loads the circles of contacts. contactIDs narrows the membership query; nil
// loads the memberships of all the user's contacts.
func attachCircles(ctx context.Context, h *database.SessionHandle, contacts []model.Contact, contactIDs []string) ([]model.ContactView, error) {
	views := make([]model.ContactView, len(contacts))
	for i, c := range contacts {
		views[i] = model.ContactView{Contact: c, Circles: []model.CircleRef{}}
	}
	if len(contacts) == 0 {
		return views, nil
	}

	q := database.Query{Table: database.TableContactsCircle, Columns: "contact_id, circle_id"}
	if contactIDs != nil {
		q.Where = []database.Cond{database.In("contact_id", contactIDs)}
	}
	var links []model.ContactCircle
	if err := h.Select(ctx, &links, q); err != nil {
		return views, err
	}
	if len(links) == 0 {
		return views, nil
	}

	circleIDs := make([]string, 0, len(links))
	for _, l := range links {
		circleIDs = append(circleIDs, l.CircleID)
	}
	var refs []model.CircleRef
	err := h.Select(ctx, &refs, database.Query{
		Table:   database.TableCircles,
		Columns: "id, name, color",
		Where:   []database.Cond{database.In("id", unique(circleIDs))},
		OrderBy: "name",
	})
	if err != nil {
		return views, err
	}

	byContact := make(map[string]map[string]bool, len(links))
	for _, l := range links {
		if byContact[l.ContactID] == nil {
			byContact[l.ContactID] = make(map[string]bool)
		}
		byContact[l.ContactID][l.CircleID] = true
	}
	for i := range views {
		for _, ref := range refs {
			if byContact[views[i].ID][ref.ID] {
				views[i].Circles = append(views[i].Circles, ref)
			}
		}
	}
	return views, nil
}

// ownedCircles loads the given circles and fails with a ValidationError unless the user owns all
// of them.
func ownedCircles(ctx context.Context, h *database.SessionHandle, ids []string) ([]model.CircleRef, error) {
	refs := []model.CircleRef{}
	if len(ids) == 0 {
		return refs, nil
	}
	err := h.Select(ctx, &refs, database.Query{
		Table:   database.TableCircles,
		Columns: "id, name, color",
		Where:   []database.Cond{database.In("id", ids)},
		OrderBy: "name",
	})
	if err != nil {
		return nil, err
	}
	if len(refs) != len(ids) {
		return nil, apperrors.NewValidationError("circle_ids", "owned", "contains a circle that does not exist")
	}
	return refs, nil
}

func linkCircles(ctx context.Context, h *database.SessionHandle, contactID string, circleIDs []string, createdAt time.Time) error {
	for _, circleID := range circleIDs {
		err := h.Insert(ctx, database.TableContactsCircle,
			database.Set("contact_id", contactID),
			database.Set("circle_id", circleID),
			database.Set("created_at", createdAt),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func circleIDsOf(ctx context.Context, h *database.SessionHandle, contactID string) ([]string, error) {
	var links []model.ContactCircle
	err := h.Select(ctx, &links, database.Query{
		Table:   database.TableContactsCircle,
		Columns: "contact_id, circle_id",
		Where:   []database.Cond{database.Eq("contact_id", contactID)},
	})
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.CircleID
	}
	return ids, err
}

func markContact(ctx context.Context, contactID string, circleIDs []string) {
	revalidate.Mark(ctx, "/contacts", "/contacts/"+contactID, "/circles")
	for _, id := range circleIDs {
		revalidate.Mark(ctx, "/circles/"+id)
	}
}

func circleRefIDs(refs []model.CircleRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
