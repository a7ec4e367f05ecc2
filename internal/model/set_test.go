package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStringSet_AddRemoveHas(t *testing.T) {
	t.Parallel()

	var s StringSet
	assert.True(t, s.Add("tax"))
	assert.False(t, s.Add("tax"))
	assert.True(t, s.Add("retirement"))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("tax"))

	assert.True(t, s.Remove("tax"))
	assert.False(t, s.Remove("tax"))
	assert.Equal(t, []string{"retirement"}, s.Values())
}

func TestStringSet_ToggleTwiceRestores(t *testing.T) {
	t.Parallel()

	s := NewStringSet("retirement", "estate")
	orig := s.Values()

	assert.True(t, s.Toggle("tax"))
	assert.False(t, s.Toggle("tax"))
	assert.Equal(t, orig, s.Values())
}

func TestStringSet_ReAddAppendsAtEnd(t *testing.T) {
	t.Parallel()

	s := NewStringSet("a", "b", "c")
	s.Toggle("a")
	s.Toggle("a")
	assert.Equal(t, []string{"b", "c", "a"}, s.Values())
}

func TestStringSet_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := NewStringSet("a", "b", "c")
	c := s.Clone()
	c.Remove("a")
	c.Add("z")
	assert.Equal(t, []string{"a", "b", "c"}, s.Values())
	assert.Equal(t, []string{"b", "c", "z"}, c.Values())
}

func TestStringSet_JSON(t *testing.T) {
	t.Parallel()

	var empty StringSet
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	var s StringSet
	require.NoError(t, json.Unmarshal([]byte(`["english","french","english"]`), &s))
	assert.Equal(t, []string{"english", "french"}, s.Values())
}

func TestStringSet_YAML(t *testing.T) {
	t.Parallel()

	var doc struct {
		Langs StringSet `yaml:"langs"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("langs: [english, french, french]\n"), &doc))
	assert.Equal(t, []string{"english", "french"}, doc.Langs.Values())

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- english")
}
