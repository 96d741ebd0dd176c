package errreport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInit_EmptyDSNDisablesReporting(t *testing.T) {
	assert.NoError(t, Init("", "test", "", zap.NewNop()))
}

func TestInit_BadDSN(t *testing.T) {
	assert.Error(t, Init("not a dsn", "test", "", zap.NewNop()))
}

func TestCapture_WithoutClient(t *testing.T) {
	assert.NotPanics(t, func() {
		Capture(nil, nil)
		Capture(errors.New("boom"), map[string]string{"txn_id": "abc"})
	})
	// Nothing is buffered, so Flush returns without waiting out the timeout.
	Flush(10 * time.Millisecond)
}
