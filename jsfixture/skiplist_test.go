package jsfixture

import (
	"os"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTempFileData runs f with the path of a temporary file holding data.
func withTempFileData(t *testing.T, data []byte, f func(path string)) {
	t.Helper()
	helpers.WithTempFile(func(path string) {
		require.NoError(t, os.WriteFile(path, data, 0o644))
		f(path)
	})
}

func TestSkipList(t *testing.T) {
	s, err := ParseSkipList(strings.NewReader(`
# comment
lc3/   # LiveConnect is not available
./ecma/Statements/12.6.2-3.js
js1_5/Regress/regress-1.js #
`))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	reason, ok := s.Reason("lc3/JavaClass/ToClass-001.js")
	assert.True(t, ok)
	assert.Equal(t, "LiveConnect is not available", reason)

	reason, ok = s.Reason("ecma/Statements/12.6.2-3.js")
	assert.True(t, ok)
	assert.Equal(t, defaultSkipReason, reason)

	reason, ok = s.Reason("js1_5/Regress/regress-1.js")
	assert.True(t, ok)
	assert.Equal(t, defaultSkipReason, reason)

	_, ok = s.Reason("lc3.js")
	assert.False(t, ok)
	_, ok = s.Reason("ecma/Statements/12.6.2-4.js")
	assert.False(t, ok)
}

func TestLoadSkipList(t *testing.T) {
	withTempFileData(t, []byte("a.js # flaky\n"), func(path string) {
		s, err := LoadSkipList(path)
		require.NoError(t, err)
		reason, ok := s.Reason("a.js")
		assert.True(t, ok)
		assert.Equal(t, "flaky", reason)
	})

	s, err := LoadSkipList("")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	_, err = LoadSkipList("testdata/no-such-file.txt")
	assert.Error(t, err)
}

func TestNilSkipListSkipsNothing(t *testing.T) {
	var s *SkipList
	_, ok := s.Reason("a.js")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}
