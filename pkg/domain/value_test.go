package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	assert.True(t, domain.ParseValue("<AUTO>").IsAuto())
	assert.False(t, domain.ParseValue("/data").IsAuto())
	assert.Equal(t, "/data", domain.ParseValue("/data").Text())
	assert.Equal(t, "<AUTO>", domain.Auto().String())

	// A caller literally named "auto" is not the marker.
	assert.False(t, domain.ParseValue("auto").IsAuto())
}

func TestKeys(t *testing.T) {
	for _, k := range domain.AllowedKeys {
		assert.True(t, k.Valid(), "%s should be valid", k)
	}
	assert.False(t, domain.Key("created_at").Valid())
	assert.False(t, domain.Key("bogus").Valid())

	assert.True(t, domain.KeyOutputModelPath.Writable())
	assert.True(t, domain.KeyOutputDatasetPath.Writable())
	assert.False(t, domain.KeyModelPath.Writable())
	assert.False(t, domain.KeyDatasetPath.Writable())
}

func TestInvalidKey(t *testing.T) {
	err := domain.InvalidKey("bogus")
	assert.True(t, errors.Is(err, domain.ErrInvalidKey))
	assert.Contains(t, err.Error(), "bogus")
	assert.Contains(t, err.Error(), "output_dataset_path")
}
