// Package model holds the input shapes accepted by the mutation endpoints. They are public so that
// clients of the service can build requests with the same types.
package model

import "strings"

// CreateContactInput is the body of a contact create request. CircleIDs lists the circles the new
// contact joins.
type CreateContactInput struct {
	Name        string   `json:"name"         validate:"required,max=100"`
	ProfileLink string   `json:"profile_link" validate:"required,http_url,max=2048"`
	Reason      string   `json:"reason"       validate:"required,max=1000"`
	Favorite    bool     `json:"favorite"`
	CircleIDs   []string `json:"circle_ids"   validate:"omitempty,dive,uuid"`
}

// Normalize trims all string fields.
func (in *CreateContactInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.ProfileLink = strings.TrimSpace(in.ProfileLink)
	in.Reason = strings.TrimSpace(in.Reason)
	in.CircleIDs = trimAll(in.CircleIDs)
}

// UpdateContactInput is the body of a contact update request. A nil CircleIDs leaves the contact's
// circles as they are, a non-nil one (possibly empty) replaces them.
type UpdateContactInput struct {
	ID          string    `json:"id"           validate:"required,uuid"`
	Name        string    `json:"name"         validate:"required,max=100"`
	ProfileLink string    `json:"profile_link" validate:"required,http_url,max=2048"`
	Reason      string    `json:"reason"       validate:"required,max=1000"`
	Favorite    bool      `json:"favorite"`
	CircleIDs   *[]string `json:"circle_ids"   validate:"omitempty,dive,uuid"`
}

// Normalize trims all string fields.
func (in *UpdateContactInput) Normalize() {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.ProfileLink = strings.TrimSpace(in.ProfileLink)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.CircleIDs != nil {
		ids := trimAll(*in.CircleIDs)
		if ids == nil {
			ids = []string{}
		}
		in.CircleIDs = &ids
	}
}

// DeleteContactInput identifies the contact to delete.
type DeleteContactInput struct {
	ID string `json:"id" validate:"required,uuid"`
}

// Normalize trims the id.
func (in *DeleteContactInput) Normalize() {
	in.ID = strings.TrimSpace(in.ID)
}

// CreateCircleInput is the body of a circle create request.
type CreateCircleInput struct {
	Name        string  `json:"name"        validate:"required,max=50"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor,max=7"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Icon        *string `json:"icon"        validate:"omitempty,max=50"`
	Favorite    bool    `json:"favorite"`
}

// Normalize trims all string fields. Blank optional fields become absent.
func (in *CreateCircleInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = trimOptional(in.Color)
	in.Description = trimOptional(in.Description)
	in.Icon = trimOptional(in.Icon)
}

// UpdateCircleInput is the body of a circle update request.
type UpdateCircleInput struct {
	ID          string  `json:"id"          validate:"required,uuid"`
	Name        string  `json:"name"        validate:"required,max=50"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor,max=7"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Icon        *string `json:"icon"        validate:"omitempty,max=50"`
	Favorite    bool    `json:"favorite"`
}

// Normalize trims all string fields. Blank optional fields become absent.
func (in *UpdateCircleInput) Normalize() {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Color = trimOptional(in.Color)
	in.Description = trimOptional(in.Description)
	in.Icon = trimOptional(in.Icon)
}

// DeleteCircleInput identifies the circle to delete.
type DeleteCircleInput struct {
	ID string `json:"id" validate:"required,uuid"`
}

// Normalize trims the id.
func (in *DeleteCircleInput) Normalize() {
	in.ID = strings.TrimSpace(in.ID)
}

// UpdateSettingsInput is the body of a settings update request. A nil QRCodeLink clears the link.
type UpdateSettingsInput struct {
	QRCodeLink *string `json:"qr_code_link" validate:"omitempty,http_url,max=2048"`
}

// Normalize trims the link. A blank link becomes absent.
func (in *UpdateSettingsInput) Normalize() {
	in.QRCodeLink = trimOptional(in.QRCodeLink)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// trimAll trims every id and drops blank and repeated ones.
func trimAll(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
