package security_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careconnect-health/careconnect-api/shared/security"
)

func TestGenerateCode_Length(t *testing.T) {
	for _, length := range []int{4, 6} {
		code, err := security.GenerateCode(length)
		require.NoError(t, err)
		require.Len(t, code, length)
	}
}

func TestGenerateCode_DigitsOnly(t *testing.T) {
	code, err := security.GenerateCode(32)
	require.NoError(t, err)

	for _, c := range code {
		require.GreaterOrEqual(t, c, '0')
		require.LessOrEqual(t, c, '9')
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for range 16 {
		code, err := security.GenerateCode(8)
		require.NoError(t, err)
		seen[code] = true
	}

	// 16 draws of an 8-digit code colliding down to one value would mean a
	// broken generator.
	require.Greater(t, len(seen), 1)
}
