package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyLocker(t *testing.T) {
	t.Parallel()
	l := newKeyLocker()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock(bookKey("b-1"))
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	require.Equal(t, 50, counter)
	require.Zero(t, l.size())

	unlockA := l.Lock(bookKey("a"))
	unlockB := l.Lock(userKey("a"))
	require.Equal(t, 2, l.size())
	unlockA()
	unlockB()
	require.Zero(t, l.size())
}
