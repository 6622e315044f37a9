package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFor(t *testing.T) {
	assert.Equal(t, "MAI_CREATE", CodeFor("maintenance", "create"))
	assert.Equal(t, "USE_READ", CodeFor("users", "read"))
	assert.Equal(t, "PAY_DELETE", CodeFor(" payments ", " delete "))
	// Resources shorter than three letters keep the full resource.
	assert.Equal(t, "HR_UPDATE", CodeFor("hr", "update"))
}

func TestNameFor(t *testing.T) {
	assert.Equal(t, "maintenance.create", NameFor("maintenance", "create"))
	assert.Equal(t, "audit.read", NameFor(" Audit ", " READ "))
}
