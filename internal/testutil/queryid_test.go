package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedQueryIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedQueryIDGenerator("query-123")

	assert.Equal(t, "query-123", gen.Generate())
	assert.Equal(t, "query-123", gen.Generate())
}

func TestFixedQueryIDGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedQueryIDGenerator("")
	assert.Equal(t, "test-query-default", gen.Generate())
}

func TestFixedQueryIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedQueryIDGenerator("thread-safe")

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe", gen.Generate())
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
