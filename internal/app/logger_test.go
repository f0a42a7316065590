package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	t.Run("text format filters below the level", func(t *testing.T) {
		var out bytes.Buffer
		logger := newLogger("warn", "text", &out)

		logger.Info("hidden")
		logger.Warn("visible")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "visible")
	})

	t.Run("json format emits structured records", func(t *testing.T) {
		var out bytes.Buffer
		logger := newLogger("info", "json", &out)

		logger.Info("event", "key", "value")

		assert.Contains(t, out.String(), `"msg":"event"`)
		assert.Contains(t, out.String(), `"key":"value"`)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var out bytes.Buffer
		logger := newLogger("chatty", "text", &out)

		logger.Debug("hidden")
		logger.Info("visible")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "visible")
	})
}
