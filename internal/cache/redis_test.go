package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyNamespacing(t *testing.T) {
	assert.Equal(t, "agrobook:person:7:42", Key("person:%d:%d", 7, 42))
	assert.Equal(t, "agrobook:persons:7", Key("persons:%d", 7))
	assert.Equal(t, "agrobook:entries:7:*", Key("entries:%d:*", 7))
}

// Every cache function must be a no-op when Redis is not configured.
func TestNilClientTolerance(t *testing.T) {
	client = nil
	ctx := context.Background()

	var dest []string
	assert.False(t, GetCached(ctx, Key("persons:%d", 1), &dest))
	SetCached(ctx, Key("persons:%d", 1), []string{"a"}, DefaultTTL)
	InvalidatePerson(ctx, 1, 2)
	InvalidateLedger(ctx, 1, 2)
	assert.False(t, IsHealthy(ctx))
}
