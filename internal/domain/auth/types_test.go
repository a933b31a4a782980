package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_IsAdmin(t *testing.T) {
	assert.True(t, Identity{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Identity{Role: RoleUser}.IsAdmin())
	assert.False(t, Identity{}.IsAdmin())
}

func TestIdentity_Owns(t *testing.T) {
	id := Identity{CourseIDs: []string{"c1", "c2"}}
	assert.True(t, id.Owns("c1"))
	assert.False(t, id.Owns("c3"))
	assert.False(t, Identity{}.Owns("c1"))
}
