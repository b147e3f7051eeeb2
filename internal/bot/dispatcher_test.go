package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mcregbot/internal/dependencies/mocks"
	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/services/allowlist"
	"github.com/mcoot/mcregbot/internal/services/locks"
	"github.com/mcoot/mcregbot/internal/services/registration"
	"github.com/mcoot/mcregbot/internal/services/rotation"
	"github.com/mcoot/mcregbot/internal/storage/memory"
	"github.com/mcoot/mcregbot/internal/testutil"
)

var startTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type DispatcherSuite struct {
	suite.Suite
	storage    *mocks.FaultyStorage
	server     *mocks.FakeWhitelist
	clock      *mocks.MockClock
	dispatcher *Dispatcher
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.storage = mocks.NewFaultyStorage(memory.New())
	s.server = mocks.NewFakeWhitelist("alice")
	s.clock = mocks.NewMockClock(startTime)
	s.ctx = context.Background()

	logger := testutil.NopLogger()
	client := allowlist.New(s.server, allowlist.DefaultConfig(), logger)
	set := locks.NewSet()
	reg := registration.New(s.storage, client, set, s.clock, logger)
	rot := rotation.New(s.storage, client, set, s.clock, rotation.DefaultConfig(), logger)
	s.dispatcher = NewDispatcher(reg, rot, s.storage, s.clock, time.Second, logger)
}

func (s *DispatcherSuite) handle(identity model.Identity, command, args string) string {
	return s.dispatcher.Handle(s.ctx, identity, command, args)
}

func (s *DispatcherSuite) TestStart() {
	s.Equal(ReplyStart, s.handle("100", CommandStart, ""))
}

func (s *DispatcherSuite) TestUnknownCommandIsIgnored() {
	s.Equal("", s.handle("100", "help", ""))
}

func (s *DispatcherSuite) TestUsage() {
	s.Equal(ReplyRegisterUsage, s.handle("100", CommandRegister, ""))
	s.Equal(ReplyRegisterUsage, s.handle("100", CommandRegister, "   "))
	s.Equal(ReplyChangeNickUsage, s.handle("100", CommandChangeNick, ""))
}

func (s *DispatcherSuite) TestRegisterFlow() {
	s.Equal(ReplyInvalidName, s.handle("100", CommandRegister, "no"))
	s.Equal(ReplyNameTaken, s.handle("100", CommandRegister, "ALICE"))
	s.Equal(ReplyRegistered, s.handle("100", CommandRegister, "Bob"))
	s.Equal(ReplyAlreadyRegistered, s.handle("100", CommandRegister, "Carol"))
}

func (s *DispatcherSuite) TestRegisterUsesFirstArgument() {
	s.Equal(ReplyRegistered, s.handle("100", CommandRegister, "Bob extra words"))
	s.True(s.server.Has("Bob"))
	s.False(s.server.Has("extra"))
}

func (s *DispatcherSuite) TestRegisterAuthorityDown() {
	s.server.Fail(mocks.VerbList, errors.New("connection refused"))
	s.Equal(ReplyError, s.handle("100", CommandRegister, "Bob"))
}

func (s *DispatcherSuite) TestChangeNickFlow() {
	s.Require().Equal(ReplyRegistered, s.handle("100", CommandRegister, "Bob"))

	s.Equal("Nickname change is available once every 24 hours", s.handle("100", CommandChangeNick, "Carol"))

	s.clock.Advance(24 * time.Hour)
	s.Equal(ReplyNameTaken, s.handle("100", CommandChangeNick, "alice"))
	s.Equal(ReplyRotated, s.handle("100", CommandChangeNick, "Carol"))
	s.True(s.server.Has("Carol"))
	s.False(s.server.Has("Bob"))
}

func (s *DispatcherSuite) TestChangeNickNotRegistered() {
	s.Equal(ReplyNotRegistered, s.handle("100", CommandChangeNick, "Carol"))
}

func (s *DispatcherSuite) TestChangeNickBanned() {
	s.Require().Equal(ReplyRegistered, s.handle("100", CommandRegister, "Bob"))
	s.server.Ban("Bob")
	s.clock.Advance(48 * time.Hour)

	s.Equal(ReplyRotationBlocked, s.handle("100", CommandChangeNick, "Carol"))
}

func (s *DispatcherSuite) TestChangeNickInconsistentIsGenericError() {
	s.Require().Equal(ReplyRegistered, s.handle("100", CommandRegister, "Bob"))
	s.clock.Advance(48 * time.Hour)
	s.server.Fail(mocks.VerbAdd, errors.New("connection reset"))

	s.Equal(ReplyError, s.handle("100", CommandChangeNick, "Carol"))
}

func (s *DispatcherSuite) TestMe() {
	s.Equal(ReplyNotRegistered, s.handle("100", CommandMe, ""))

	s.Require().Equal(ReplyRegistered, s.handle("100", CommandRegister, "Bob"))
	s.Equal("Your nickname: Bob\nLast changed: 2024-01-01 12:00 UTC\nNext change available: 2024-01-02 12:00 UTC",
		s.handle("100", CommandMe, ""))

	s.clock.Advance(25 * time.Hour)
	s.Equal("Your nickname: Bob\nLast changed: 2024-01-01 12:00 UTC\nNext change available: now",
		s.handle("100", CommandMe, ""))
}

func (s *DispatcherSuite) TestMeStoreFailure() {
	s.storage.FailGet(errors.New("connection lost"))
	s.Equal(ReplyError, s.handle("100", CommandMe, ""))
}

func (s *DispatcherSuite) TestCooldownReplyFormatting() {
	s.Equal("Nickname change is available once every 24 hours", cooldownReply(24*time.Hour))
	s.Equal("Nickname change is available once every 1h30m0s", cooldownReply(90*time.Minute))
}
