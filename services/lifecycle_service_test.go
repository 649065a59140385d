package services_test

import (
	"context"
	"testing"
	"time"

	"baequest_server/models"
	"baequest_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLifecycleService(g *mockGatherings, p *mockPresence, b *mockBroadcaster) *services.LifecycleService {
	return &services.LifecycleService{
		Gatherings:  g,
		Presence:    p,
		Broadcast:   b,
		SweepWindow: time.Minute,
		Now:         func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestSweepExpiredEvictsEveryone(t *testing.T) {
	gatherings := new(mockGatherings)
	presence := new(mockPresence)
	broadcast := new(mockBroadcaster)

	ended := models.Gathering{ID: "e1", Kind: models.GatheringKindEvent, Name: "Trivia Night", EndTime: 1699999990}
	gatherings.On("ListEndedBetween", mock.Anything, time.Unix(1699999940, 0), time.Unix(1700000000, 0)).
		Return([]models.Gathering{ended}, nil)
	presence.On("ListPresent", mock.Anything, "e1", "").Return([]string{"u1", "u2"}, nil)
	presence.On("ForceCheckOut", mock.Anything, "u1", "e1").Return(true, nil)
	presence.On("ForceCheckOut", mock.Anything, "u2", "e1").Return(true, nil)
	broadcast.On("ToAll", models.SocketEventExpired, mock.Anything).Return()
	broadcast.On("ToRoom", "event_e1", models.SocketForceCheckout, mock.Anything).Return().Times(2)

	svc := newLifecycleService(gatherings, presence, broadcast)
	assert.NoError(t, svc.SweepExpired(context.Background()))

	presence.AssertExpectations(t)
	broadcast.AssertExpectations(t)
}

func TestSweepExpiredSkipsMovedUsers(t *testing.T) {
	gatherings := new(mockGatherings)
	presence := new(mockPresence)
	broadcast := new(mockBroadcaster)

	ended := models.Gathering{ID: "e1", Kind: models.GatheringKindEvent, EndTime: 1699999990}
	gatherings.On("ListEndedBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Gathering{ended}, nil)
	presence.On("ListPresent", mock.Anything, "e1", "").Return([]string{"u1"}, nil)
	// Already checked in somewhere else, the conditional clear lost.
	presence.On("ForceCheckOut", mock.Anything, "u1", "e1").Return(false, nil)
	broadcast.On("ToAll", models.SocketEventExpired, mock.Anything).Return()

	svc := newLifecycleService(gatherings, presence, broadcast)
	assert.NoError(t, svc.SweepExpired(context.Background()))

	broadcast.AssertNotCalled(t, "ToRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepExpiredNothingEnded(t *testing.T) {
	gatherings := new(mockGatherings)
	broadcast := new(mockBroadcaster)

	gatherings.On("ListEndedBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Gathering{}, nil)

	svc := newLifecycleService(gatherings, new(mockPresence), broadcast)
	assert.NoError(t, svc.SweepExpired(context.Background()))

	broadcast.AssertNotCalled(t, "ToAll", mock.Anything, mock.Anything)
}

func TestSweepExpiredContinuesPastFailures(t *testing.T) {
	gatherings := new(mockGatherings)
	presence := new(mockPresence)
	broadcast := new(mockBroadcaster)

	ended := []models.Gathering{
		{ID: "e1", Kind: models.GatheringKindEvent, EndTime: 1699999990},
		{ID: "e2", Kind: models.GatheringKindEvent, EndTime: 1699999995},
	}
	gatherings.On("ListEndedBetween", mock.Anything, mock.Anything, mock.Anything).Return(ended, nil)
	broadcast.On("ToAll", models.SocketEventExpired, mock.Anything).Return().Times(2)
	presence.On("ListPresent", mock.Anything, "e1", "").Return(nil, assert.AnError)
	presence.On("ListPresent", mock.Anything, "e2", "").Return([]string{"u1"}, nil)
	presence.On("ForceCheckOut", mock.Anything, "u1", "e2").Return(true, nil)
	broadcast.On("ToRoom", "event_e2", models.SocketForceCheckout, mock.Anything).Return()

	svc := newLifecycleService(gatherings, presence, broadcast)
	assert.NoError(t, svc.SweepExpired(context.Background()))

	presence.AssertExpectations(t)
	broadcast.AssertExpectations(t)
}

func TestAutoCheckoutAll(t *testing.T) {
	gatherings := new(mockGatherings)
	presence := new(mockPresence)

	presence.On("ClearAllRecords", mock.Anything).Return(12, nil)
	gatherings.On("ClearAllPresence", mock.Anything).Return(nil)

	svc := newLifecycleService(gatherings, presence, new(mockBroadcaster))
	assert.NoError(t, svc.AutoCheckoutAll(context.Background()))

	presence.AssertExpectations(t)
	gatherings.AssertExpectations(t)
}

func TestAutoCheckoutAllStopsOnRecordFailure(t *testing.T) {
	gatherings := new(mockGatherings)
	presence := new(mockPresence)

	presence.On("ClearAllRecords", mock.Anything).Return(0, assert.AnError)

	svc := newLifecycleService(gatherings, presence, new(mockBroadcaster))
	assert.Error(t, svc.AutoCheckoutAll(context.Background()))

	gatherings.AssertNotCalled(t, "ClearAllPresence", mock.Anything)
}
