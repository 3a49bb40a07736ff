package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, enc := range []string{"console", "json", ""} {
		l, err := New("info", enc)
		require.NoError(t, err, "encoding %q", enc)
		assert.NotNil(t, l)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", "console")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestNopWith(t *testing.T) {
	l := Nop().With(StringField("symbol", "TSLA"), IntField("n", 3))
	l.Info("refreshed", ErrorField(errors.New("boom")), FloatField("avg", 0.2))
}
