package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomLockerSerializesPerRoom(t *testing.T) {
	l := newRoomLocker()
	var wg sync.WaitGroup
	counter, peak, inside := 0, 0, 0
	var mu sync.Mutex

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock(7)
			defer unlock()
			mu.Lock()
			inside++
			if inside > peak {
				peak = inside
			}
			mu.Unlock()
			counter++
			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Equal(t, 1, peak)
	assert.Zero(t, l.size())
}

func TestRoomLockerIndependentRooms(t *testing.T) {
	l := newRoomLocker()
	unlockA := l.Lock(1)
	done := make(chan struct{})
	go func() {
		unlock := l.Lock(2)
		unlock()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, l.size())
	unlockA()
	assert.Zero(t, l.size())
}
