package handler

import (
	"time"

	"github.com/userhive/account-api/internal/core/domain"
)

// renderedDate carries both a zone-independent and a process-local view of a
// timestamp, for display clients that want either.
type renderedDate struct {
	ISO      string `json:"iso"`
	Local    string `json:"local"`
	Timezone string `json:"timezone"`
}

// userProjection is the public view of a user, stripped of the password hash.
type userProjection struct {
	ID        int64         `json:"id"`
	FullName  string        `json:"fullName"`
	Email     string        `json:"email"`
	Role      string        `json:"role"`
	Status    string        `json:"status"`
	DOB       *renderedDate `json:"dob,omitempty"`
	CreatedAt *renderedDate `json:"createdAt,omitempty"`
}

func renderDate(t time.Time) *renderedDate {
	if t.IsZero() {
		return nil
	}
	local := t.Local()
	zone, _ := local.Zone()
	return &renderedDate{
		ISO:      t.UTC().Format(time.RFC3339),
		Local:    local.Format("2006-01-02 15:04:05"),
		Timezone: zone,
	}
}

func toProjection(u *domain.User) userProjection {
	return userProjection{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		DOB:       renderDate(u.DOB),
		CreatedAt: renderDate(u.CreatedAt),
	}
}

func toProjections(users []domain.User) []userProjection {
	out := make([]userProjection, 0, len(users))
	for i := range users {
		out = append(out, toProjection(&users[i]))
	}
	return out
}
