package generic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolReusesValues(t *testing.T) {
	created := 0
	p := NewPool(func() *bytes.Buffer {
		created++
		return new(bytes.Buffer)
	})

	buf := p.Get()
	buf.WriteString("tick")
	assert.Equal(t, 1, created)
	p.Put(buf)

	again := p.Get()
	assert.NotNil(t, again)
}

func TestHotPool(t *testing.T) {
	created := 0
	p := NewHotPool(func() int {
		created++
		return created
	}, 4)
	assert.Equal(t, 4, created)
	assert.NotZero(t, p.Get())
}

func TestResetPoolClearsOnPut(t *testing.T) {
	var reset []*bytes.Buffer
	p := NewResetPool(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) {
			b.Reset()
			reset = append(reset, b)
		},
	)

	buf := p.Get()
	buf.WriteString("snapshot")
	p.Put(buf)

	assert.Len(t, reset, 1)
	assert.Zero(t, buf.Len())
}
