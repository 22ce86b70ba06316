package activity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

var _ activityRepo = &activityRepoMock{}

type activityRepoMock struct {
	InsertFunc       func(ctx context.Context, e domain.ActivityLogEntry) error
	ListByEntityFunc func(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error)

	calls struct {
		Insert []struct {
			Ctx context.Context
			E   domain.ActivityLogEntry
		}
		ListByEntity []struct {
			Ctx        context.Context
			EntityType domain.EntityType
			EntityID   uuid.UUID
			Limit      int
		}
	}
	lockInsert       sync.RWMutex
	lockListByEntity sync.RWMutex
}

func (mock *activityRepoMock) Insert(ctx context.Context, e domain.ActivityLogEntry) error {
	if mock.InsertFunc == nil {
		panic("activityRepoMock.InsertFunc: method is nil but activityRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		E   domain.ActivityLogEntry
	}{Ctx: ctx, E: e}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, e)
}

func (mock *activityRepoMock) InsertCalls() []struct {
	Ctx context.Context
	E   domain.ActivityLogEntry
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *activityRepoMock) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error) {
	if mock.ListByEntityFunc == nil {
		panic("activityRepoMock.ListByEntityFunc: method is nil but activityRepo.ListByEntity was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		EntityType domain.EntityType
		EntityID   uuid.UUID
		Limit      int
	}{Ctx: ctx, EntityType: entityType, EntityID: entityID, Limit: limit}
	mock.lockListByEntity.Lock()
	mock.calls.ListByEntity = append(mock.calls.ListByEntity, callInfo)
	mock.lockListByEntity.Unlock()
	return mock.ListByEntityFunc(ctx, entityType, entityID, limit)
}

func (mock *activityRepoMock) ListByEntityCalls() []struct {
	Ctx        context.Context
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Limit      int
} {
	mock.lockListByEntity.RLock()
	calls := mock.calls.ListByEntity
	mock.lockListByEntity.RUnlock()
	return calls
}
