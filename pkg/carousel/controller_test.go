package carousel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingViewer struct {
	mu    sync.Mutex
	seeks []int
}

func (v *recordingViewer) SeekTo(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seeks = append(v.seeks, index)
}

func (v *recordingViewer) last() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.seeks) == 0 {
		return -1
	}
	return v.seeks[len(v.seeks)-1]
}

func (v *recordingViewer) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seeks)
}

func TestController_ClampsAtEnds(t *testing.T) {
	v := &recordingViewer{}
	c := New[string](v, "a", "b", "c")

	assert.Equal(t, 0, c.Prev())
	assert.Equal(t, 0, v.last())

	assert.Equal(t, 1, c.Next())
	assert.Equal(t, 2, c.Next())
	assert.Equal(t, 2, c.Next())
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, 2, v.last())
	assert.True(t, c.AtEnd())

	assert.Equal(t, 1, c.Prev())
	assert.Equal(t, 1, v.last())
}

func TestController_EmptyList(t *testing.T) {
	v := &recordingViewer{}
	c := New[int](v)

	assert.Equal(t, 0, c.Prev())
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, 0, c.Index())
	assert.True(t, c.AtStart())
	assert.True(t, c.AtEnd())

	_, ok := c.Current()
	assert.False(t, ok)
}

func TestController_ExternalSlideDoesNotSeek(t *testing.T) {
	v := &recordingViewer{}
	c := New[string](v, "a", "b", "c", "d")

	assert.Equal(t, 3, c.OnExternalSlide(3))
	assert.Equal(t, 0, v.count())
	assert.Equal(t, 3, c.Index())

	item, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, "d", item)

	assert.Equal(t, 3, c.OnExternalSlide(10))
	assert.Equal(t, 0, c.OnExternalSlide(-4))
	assert.Equal(t, 0, v.count())
}

func TestController_ResetRewindsViewer(t *testing.T) {
	v := &recordingViewer{}
	c := New[string](v, "a", "b")
	c.Next()
	assert.Equal(t, 1, v.last())

	c.Reset([]string{"x", "y", "z"})
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 0, v.last())
	assert.Equal(t, []string{"x", "y", "z"}, c.Items())
	assert.Equal(t, 3, c.Len())
}

func TestController_NilViewer(t *testing.T) {
	c := New[int](nil, 1, 2)
	assert.Equal(t, 1, c.Next())
	c.Reset(nil)
	assert.Equal(t, 0, c.Index())
}

func TestController_ViewerMatchesIndexUnderConcurrency(t *testing.T) {
	v := &recordingViewer{}
	items := make([]int, 50)
	c := New[int](v, items...)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(forward bool) {
			defer wg.Done()
			if forward {
				c.Next()
			} else {
				c.Prev()
			}
		}(i%3 != 0)
	}
	wg.Wait()

	assert.Equal(t, c.Index(), v.last())
}
