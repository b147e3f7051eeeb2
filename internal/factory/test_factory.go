package factory

import (
	"time"

	"github.com/mcoot/mcregbot/internal/dependencies/mocks"
	"github.com/mcoot/mcregbot/internal/storage/memory"
	"github.com/mcoot/mcregbot/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Whitelist *mocks.FakeWhitelist
	Memory    *memory.Storage
}

// NewTestApp creates an App backed by memory storage, a fake game server
// holding names, and a clock fixed at 2024-01-01 12:00 UTC
func NewTestApp(names ...string) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	whitelist := mocks.NewFakeWhitelist(names...)

	app := newWithDependencies(store, whitelist, mockClock, Config{}, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Whitelist: whitelist,
		Memory:    store,
	}
}
