package service

import (
	"context"
	"testing"

	"notigate/internal/errors"
	"notigate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testMembers = []models.GroupMember{
	{Email: "alice@example.com", FullName: "Alice Johnson", Status: models.MemberApproved},
	{Email: "bob@example.com", FullName: "Bob Smith", Status: models.MemberApproved},
	{Email: "bobby@example.com", FullName: "Bobby Brown", Status: models.MemberApproved},
	{Email: "carol@example.com", FullName: "Carol White", Status: models.MemberPending},
}

func TestResolveNameExactMatch(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	email, err := r.ResolveName("Alice Johnson", testMembers)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestResolveNameCaseInsensitive(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	email, err := r.ResolveName("alice johnson", testMembers)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestResolveNameSubstringMatch(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	email, err := r.ResolveName("alice", testMembers)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestResolveNameExactBeatsSubstring(t *testing.T) {
	members := []models.GroupMember{
		{Email: "bob@example.com", FullName: "Bob Smith", Status: models.MemberApproved},
		{Email: "bobson@example.com", FullName: "Bob Smithson", Status: models.MemberApproved},
	}
	r := NewNameResolver(nil, testLogger())

	// "Bob Smith" is a substring of "Bob Smithson" too, but the exact
	// match wins without ambiguity.
	email, err := r.ResolveName("Bob Smith", members)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", email)
}

func TestResolveNameAmbiguousSubstring(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	_, err := r.ResolveName("bob", testMembers)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAmbiguousName))
	assert.Contains(t, err.Error(), "Bob Smith (bob@example.com)")
	assert.Contains(t, err.Error(), "Bobby Brown (bobby@example.com)")
}

func TestResolveNameAmbiguousExact(t *testing.T) {
	members := []models.GroupMember{
		{Email: "j1@example.com", FullName: "Jan Novak", Status: models.MemberApproved},
		{Email: "j2@example.com", FullName: "Jan Novak", Status: models.MemberApproved},
	}
	r := NewNameResolver(nil, testLogger())

	_, err := r.ResolveName("Jan Novak", members)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAmbiguousName))
	assert.Contains(t, err.Error(), "j1@example.com")
	assert.Contains(t, err.Error(), "j2@example.com")
}

func TestResolveNameNotFound(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	_, err := r.ResolveName("Zelda", testMembers)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNameNotFound))
}

func TestResolveNamePendingMembersExcluded(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	_, err := r.ResolveName("Carol White", testMembers)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNameNotFound))
}

func TestResolveNameNoApprovedMembers(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	members := []models.GroupMember{
		{FullName: "Carol White", Email: "carol@example.com", Status: models.MemberPending},
	}
	_, err := r.ResolveName("Carol White", members)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNameNotFound))
	assert.Contains(t, err.Error(), "no approved group members")

	_, err = r.ResolveName("Carol White", nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNameNotFound))
}

func TestResolveNameInvalidInput(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	_, err := r.ResolveName("", testMembers)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func TestResolveParticipants(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	participants := []models.Participant{
		{Name: "Alice Johnson"},
		{Name: "Dave", Email: "dave@example.com"},
	}

	resolved, err := r.ResolveParticipants(participants, testMembers)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resolved[0].Email)
	assert.Equal(t, "dave@example.com", resolved[1].Email)
}

func TestResolveParticipantsAllOrNothing(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	participants := []models.Participant{
		{Name: "Alice Johnson"},
		{Name: "Zelda"},
		{Name: "bob"},
	}

	resolved, err := r.ResolveParticipants(participants, testMembers)
	require.Error(t, err)
	assert.Nil(t, resolved)
	// Every failure is reported in one message.
	assert.Contains(t, err.Error(), "Zelda")
	assert.Contains(t, err.Error(), "bob")
	assert.Contains(t, err.Error(), "; ")
}

func TestResolveParticipantsDoesNotMutateInput(t *testing.T) {
	r := NewNameResolver(nil, testLogger())

	participants := []models.Participant{{Name: "Alice Johnson"}}
	_, err := r.ResolveParticipants(participants, testMembers)
	require.NoError(t, err)
	assert.Empty(t, participants[0].Email)
}

func TestResolveNameForUser(t *testing.T) {
	directory := &mockDirectory{}
	directory.On("GetGroupMembers", mock.Anything, "owner1").Return(testMembers, nil)

	r := NewNameResolver(directory, testLogger())
	email, err := r.ResolveNameForUser(context.Background(), "owner1", "Alice Johnson")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestResolveNameForUserDirectoryFailure(t *testing.T) {
	directory := &mockDirectory{}
	directory.On("GetGroupMembers", mock.Anything, "owner1").Return(nil, assert.AnError)

	r := NewNameResolver(directory, testLogger())
	_, err := r.ResolveNameForUser(context.Background(), "owner1", "Alice Johnson")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTransportFailure))
}
