package employee

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	valid := []string{"alice", "Bob7", "raj@shop", "a1b2c3", "x999", "z0001"}
	for _, name := range valid {
		require.NoError(t, ValidateName(name), name)
	}
	invalid := []string{"", "7up", "@admin", "bob smith", "ann-marie", "bob1000", "a9b9c9d9", "x12345678901234567890"}
	for _, name := range invalid {
		require.ErrorIs(t, ValidateName(name), ErrInvalidName, name)
	}
}
