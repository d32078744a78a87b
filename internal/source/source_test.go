package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := Errorf("yahoo", KindStatus, "status %d", 503)
	assert.Equal(t, KindStatus, KindOf(err))
	assert.Equal(t, "yahoo: status: status 503", err.Error())

	wrapped := fmt.Errorf("symbol MBB: %w", err)
	assert.Equal(t, KindStatus, KindOf(wrapped))

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestFetchErrorUnwrap(t *testing.T) {
	err := NewError("vndirect", KindNetwork, context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, Quiet(err))
	assert.True(t, Quiet(NewError("scrape", KindUnsupported, nil)))
	assert.Equal(t, "scrape: disabled", NewError("scrape", KindDisabled, nil).Error())
}
