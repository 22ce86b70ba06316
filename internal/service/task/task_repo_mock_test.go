package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

var _ taskRepo = &taskRepoMock{}

type taskRepoMock struct {
	CreateFunc        func(ctx context.Context, t *domain.Task) (*domain.Task, error)
	TransitionFunc    func(ctx context.Context, id uuid.UUID, to domain.TaskStatus, by uuid.UUID, at time.Time) (*domain.Task, error)
	ListByInquiryFunc func(ctx context.Context, inquiryID uuid.UUID) ([]domain.Task, error)
	ListOpenFunc      func(ctx context.Context, assignee *uuid.UUID, limit int) ([]domain.Task, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			T   *domain.Task
		}
		Transition []struct {
			Ctx context.Context
			ID  uuid.UUID
			To  domain.TaskStatus
			By  uuid.UUID
			At  time.Time
		}
		ListByInquiry []struct {
			Ctx       context.Context
			InquiryID uuid.UUID
		}
		ListOpen []struct {
			Ctx      context.Context
			Assignee *uuid.UUID
			Limit    int
		}
	}
	lockCreate        sync.RWMutex
	lockTransition    sync.RWMutex
	lockListByInquiry sync.RWMutex
	lockListOpen      sync.RWMutex
}

func (mock *taskRepoMock) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if mock.CreateFunc == nil {
		panic("taskRepoMock.CreateFunc: method is nil but taskRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		T   *domain.Task
	}{Ctx: ctx, T: t}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, t)
}

func (mock *taskRepoMock) CreateCalls() []struct {
	Ctx context.Context
	T   *domain.Task
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *taskRepoMock) Transition(ctx context.Context, id uuid.UUID, to domain.TaskStatus, by uuid.UUID, at time.Time) (*domain.Task, error) {
	if mock.TransitionFunc == nil {
		panic("taskRepoMock.TransitionFunc: method is nil but taskRepo.Transition was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		To  domain.TaskStatus
		By  uuid.UUID
		At  time.Time
	}{Ctx: ctx, ID: id, To: to, By: by, At: at}
	mock.lockTransition.Lock()
	mock.calls.Transition = append(mock.calls.Transition, callInfo)
	mock.lockTransition.Unlock()
	return mock.TransitionFunc(ctx, id, to, by, at)
}

func (mock *taskRepoMock) TransitionCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	To  domain.TaskStatus
	By  uuid.UUID
	At  time.Time
} {
	mock.lockTransition.RLock()
	calls := mock.calls.Transition
	mock.lockTransition.RUnlock()
	return calls
}

func (mock *taskRepoMock) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.Task, error) {
	if mock.ListByInquiryFunc == nil {
		panic("taskRepoMock.ListByInquiryFunc: method is nil but taskRepo.ListByInquiry was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		InquiryID uuid.UUID
	}{Ctx: ctx, InquiryID: inquiryID}
	mock.lockListByInquiry.Lock()
	mock.calls.ListByInquiry = append(mock.calls.ListByInquiry, callInfo)
	mock.lockListByInquiry.Unlock()
	return mock.ListByInquiryFunc(ctx, inquiryID)
}

func (mock *taskRepoMock) ListByInquiryCalls() []struct {
	Ctx       context.Context
	InquiryID uuid.UUID
} {
	mock.lockListByInquiry.RLock()
	calls := mock.calls.ListByInquiry
	mock.lockListByInquiry.RUnlock()
	return calls
}

func (mock *taskRepoMock) ListOpen(ctx context.Context, assignee *uuid.UUID, limit int) ([]domain.Task, error) {
	if mock.ListOpenFunc == nil {
		panic("taskRepoMock.ListOpenFunc: method is nil but taskRepo.ListOpen was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Assignee *uuid.UUID
		Limit    int
	}{Ctx: ctx, Assignee: assignee, Limit: limit}
	mock.lockListOpen.Lock()
	mock.calls.ListOpen = append(mock.calls.ListOpen, callInfo)
	mock.lockListOpen.Unlock()
	return mock.ListOpenFunc(ctx, assignee, limit)
}

func (mock *taskRepoMock) ListOpenCalls() []struct {
	Ctx      context.Context
	Assignee *uuid.UUID
	Limit    int
} {
	mock.lockListOpen.RLock()
	calls := mock.calls.ListOpen
	mock.lockListOpen.RUnlock()
	return calls
}
