package groups_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

func TestProjectPublicOmitsMembers(t *testing.T) {
	group := fixtureGroup()
	owner := fixtureUser(ownerID)

	view := groups.ProjectPublic(group, owner, true)

	assert.Equal(t, group.ID, view.ID)
	assert.Equal(t, models.RolePublic, view.Access)
	assert.Equal(t, 2, view.Quantity)
	assert.Equal(t, owner.Handle, view.OwnerHandle)
	assert.Equal(t, owner.DisplayName, view.OwnerDisplayName)
	assert.True(t, view.HasPendingRequest)

	// the serialized public view must not leak the member list
	b, err := json.Marshal(view)
	assert.NoError(t, err)
	assert.NotContains(t, string(b), `"members"`)
}

func TestProjectPrivateCarriesMemberNames(t *testing.T) {
	group := fixtureGroup()
	owner := fixtureUser(ownerID)
	names := []string{"Name owner-1", "Name member-1"}

	view := groups.ProjectPrivate(group, owner, models.RoleMember, names, false)

	assert.Equal(t, models.RoleMember, view.Access)
	assert.Equal(t, names, view.Members)
	assert.False(t, view.HasPendingRequest)

	ownerView := groups.ProjectPrivate(group, owner, models.RoleOwner, names, false)
	assert.Equal(t, models.RoleOwner, ownerView.Access)
}
