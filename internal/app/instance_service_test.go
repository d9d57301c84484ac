package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

func TestCreateInstanceValidatesInput(t *testing.T) {
	service := NewInstanceService(newTestDB(t), newFakeGateway().factory())

	_, err := service.Create(CreateInstanceInput{Name: "  ", BaseURL: "http://x", APIKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	inst, err := service.Create(CreateInstanceInput{Name: "prod", BaseURL: "http://x", APIKey: "k"})
	require.NoError(t, err)
	assert.True(t, inst.Enabled)
}

func TestCheckHealthStoresProbeResult(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstance(t, db)

	gw := newFakeGateway()
	gw.listDatasetsFn = func(int, int) ([]remote.Payload, int, error) {
		return nil, 0, errors.New("connection refused")
	}
	service := NewInstanceService(db, gw.factory())

	healthy, err := service.CheckHealth(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.False(t, healthy)

	var stored model.Instance
	require.NoError(t, db.First(&stored, inst.ID).Error)
	assert.False(t, stored.Healthy)

	gw.listDatasetsFn = nil
	healthy, err = service.CheckHealth(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.True(t, healthy)

	require.NoError(t, db.First(&stored, inst.ID).Error)
	assert.True(t, stored.Healthy)
}

func TestKeyedMutexSerializesSameKeyOnly(t *testing.T) {
	locks := newKeyedMutex()

	release := locks.lock("a")
	otherDone := make(chan struct{})
	go func() {
		unlock := locks.lock("b")
		unlock()
		close(otherDone)
	}()
	<-otherDone // a held lock on one key never blocks another key

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("a")
			defer unlock()
			counter++
		}()
	}
	release()
	wg.Wait()
	assert.Equal(t, 8, counter)
}
