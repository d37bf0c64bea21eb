package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermissions(t *testing.T) {
	triple, err := ParsePermissions("654")
	require.NoError(t, err)
	assert.Equal(t, Permissions{Read: true, Write: true, Execute: false}, triple.User)
	assert.Equal(t, Permissions{Read: true, Write: false, Execute: true}, triple.Group)
	assert.Equal(t, Permissions{Read: true, Write: false, Execute: false}, triple.Other)
}

func TestParsePermissionsRejectsWrongLength(t *testing.T) {
	_, err := ParsePermissions("64")
	assert.Error(t, err)

	_, err = ParsePermissions("6540")
	assert.Error(t, err)
}

func TestParsePermissionsRejectsOutOfRangeDigit(t *testing.T) {
	_, err := ParsePermissions("891")
	assert.Error(t, err)
}

func TestPermissionsRoundTripForAllDigits(t *testing.T) {
	for u := byte('0'); u <= '7'; u++ {
		for g := byte('0'); g <= '7'; g++ {
			for o := byte('0'); o <= '7'; o++ {
				s := string([]byte{u, g, o})
				triple, err := ParsePermissions(s)
				require.NoError(t, err)
				assert.Equal(t, s, triple.String())
			}
		}
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, uint32(7), Permissions{Read: true, Write: true, Execute: true}.Mask())
	assert.Equal(t, uint32(0), Permissions{}.Mask())
	assert.Equal(t, uint32(4), Permissions{Read: true}.Mask())
}
