package service

import (
	"context"
	"fmt"
	"strings"

	"notigate/internal/errors"
	"notigate/internal/models"
	"notigate/internal/validation"

	"github.com/sirupsen/logrus"
)

// Directory supplies a user's approved contact group from the external
// contacts service.
type Directory interface {
	GetGroupMembers(ctx context.Context, ownerID string) ([]models.GroupMember, error)
}

// NameResolver resolves free-text names to email addresses over a
// user's contact group. Only approved members are considered. Matching
// is case-insensitive: an exact full-name match wins, then a unique
// substring match.
type NameResolver struct {
	directory Directory
	logger    *logrus.Logger
}

// NewNameResolver builds a resolver. directory may be nil when
// ResolveNameForUser is not used.
func NewNameResolver(directory Directory, logger *logrus.Logger) *NameResolver {
	return &NameResolver{directory: directory, logger: logger}
}

// ResolveName matches name against members and returns the email of
// the single match. Pending members never match. Multiple candidates
// are an error listing every candidate so the caller can disambiguate.
func (r *NameResolver) ResolveName(name string, members []models.GroupMember) (string, error) {
	if err := validation.ValidateParticipantName(name); err != nil {
		return "", err
	}

	query := strings.ToLower(strings.TrimSpace(name))

	var approved []models.GroupMember
	for _, m := range members {
		if m.Status == models.MemberApproved {
			approved = append(approved, m)
		}
	}
	if len(approved) == 0 {
		return "", errors.New(errors.ErrCodeNameNotFound, "no approved group members found")
	}

	var exact []models.GroupMember
	for _, m := range approved {
		if strings.ToLower(m.FullName) == query {
			exact = append(exact, m)
		}
	}
	if len(exact) == 1 {
		return exact[0].Email, nil
	}
	if len(exact) > 1 {
		return "", errors.Newf(errors.ErrCodeAmbiguousName,
			"multiple users named %q: %s", name, candidateList(exact))
	}

	var partial []models.GroupMember
	for _, m := range approved {
		if strings.Contains(strings.ToLower(m.FullName), query) {
			partial = append(partial, m)
		}
	}
	switch len(partial) {
	case 1:
		return partial[0].Email, nil
	case 0:
		return "", errors.Newf(errors.ErrCodeNameNotFound, "no user found matching %q", name)
	}
	return "", errors.Newf(errors.ErrCodeAmbiguousName,
		"multiple users match %q: %s", name, candidateList(partial))
}

// ResolveParticipants fills in missing emails for every participant.
// Resolution is all-or-nothing: if any name fails, no participant is
// modified and the error joins every failure with "; ".
func (r *NameResolver) ResolveParticipants(participants []models.Participant, members []models.GroupMember) ([]models.Participant, error) {
	resolved := make([]models.Participant, len(participants))
	var failures []string

	for i, p := range participants {
		resolved[i] = p
		if p.Email != "" {
			continue
		}
		email, err := r.ResolveName(p.Name, members)
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}
		resolved[i].Email = email
	}

	if len(failures) > 0 {
		return nil, errors.New(errors.ErrCodeNameNotFound, strings.Join(failures, "; "))
	}
	return resolved, nil
}

// ResolveNameForUser fetches ownerID's contact group and resolves name
// against it.
func (r *NameResolver) ResolveNameForUser(ctx context.Context, ownerID, name string) (string, error) {
	if r.directory == nil {
		return "", errors.New(errors.ErrCodeInternalError, "no directory configured")
	}
	members, err := r.directory.GetGroupMembers(ctx, ownerID)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeTransportFailure, "failed to load group members").
			WithContext(LogFieldUserID, ownerID)
	}
	return r.ResolveName(name, members)
}

func candidateList(members []models.GroupMember) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = fmt.Sprintf("%s (%s)", m.FullName, m.Email)
	}
	return strings.Join(parts, ", ")
}
