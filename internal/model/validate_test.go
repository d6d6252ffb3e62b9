package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUISpec(t *testing.T) {
	spec := map[string]interface{}{
		"page": map[string]interface{}{"layout": "default"},
		"sections": []interface{}{
			map[string]interface{}{"type": "hero", "props": map[string]interface{}{"title": "Ada"}},
		},
	}
	assert.NoError(t, ValidateUISpec(spec))
}

func TestValidateUISpecAllowsUnknownSectionTypes(t *testing.T) {
	// renderers skip exotic types, so validation must not reject them
	spec := map[string]interface{}{
		"sections": []interface{}{
			map[string]interface{}{"type": "hero"},
			map[string]interface{}{"type": "video", "props": map[string]interface{}{"src": "x"}},
		},
	}
	assert.NoError(t, ValidateUISpec(spec))
}

func TestValidateUISpecRejectsMalformedSpecs(t *testing.T) {
	assert.Error(t, ValidateUISpec(map[string]interface{}{}))
	assert.Error(t, ValidateUISpec(map[string]interface{}{"sections": "not a list"}))
	assert.Error(t, ValidateUISpec(map[string]interface{}{
		"sections": []interface{}{map[string]interface{}{"props": map[string]interface{}{}}},
	}))
	assert.Error(t, ValidateUISpec(map[string]interface{}{
		"sections": []interface{}{map[string]interface{}{"type": ""}},
	}))
}
