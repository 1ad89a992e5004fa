package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/killwatch/internal/danger"
	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/event"
	"github.com/osse101/killwatch/internal/state"
	"github.com/osse101/killwatch/internal/testing/fakestate"
	"github.com/osse101/killwatch/internal/universe"
	"github.com/osse101/killwatch/internal/worker"
)

// recordingSender remembers every delivery
type recordingSender struct {
	mu    sync.Mutex
	sent  []*discordgo.MessageEmbed
	edits map[string]*discordgo.MessageEmbed
	err   error
	// hold, when set, parks every Send until it is closed; entered sees each arrival
	hold    chan struct{}
	entered chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{edits: make(map[string]*discordgo.MessageEmbed)}
}

func (s *recordingSender) Send(_ context.Context, embed *discordgo.MessageEmbed) (string, error) {
	if s.hold != nil {
		s.entered <- struct{}{}
		<-s.hold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, embed)
	return "msg-" + embed.Title, nil
}

func (s *recordingSender) Edit(_ context.Context, messageID string, embed *discordgo.MessageEmbed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.edits[messageID] = embed
	return nil
}

func (s *recordingSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// casRepository applies the conditional milestone update the way the database does
type casRepository struct {
	mu        sync.Mutex
	milestone map[int64]int
	messages  map[int64]string
}

func newCASRepository() *casRepository {
	return &casRepository{milestone: make(map[int64]int), messages: make(map[int64]string)}
}

func (r *casRepository) ClaimBattleMilestone(_ context.Context, battleID int64, milestone int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.milestone[battleID]
	if prev >= milestone {
		return prev, false, nil
	}
	r.milestone[battleID] = milestone
	return prev, true, nil
}

func (r *casRepository) SetBattleMessage(_ context.Context, battleID int64, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[battleID] = messageID
	return nil
}

func (r *casRepository) GetBattle(_ context.Context, battleID int64) (*domain.Battle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &domain.Battle{ID: battleID, MessageID: r.messages[battleID]}, nil
}

const jitaID = int64(30000142)

func testCatalog() universe.Catalog {
	return universe.New(
		[]universe.System{{ID: jitaID, Name: "Jita", RegionID: 10000002, RegionName: "The Forge", Security: 0.9}},
		[]universe.ShipType{{ID: 23913, Name: "Nyx", GroupID: universe.GroupSupercarrier}},
	)
}

type harness struct {
	dispatcher *Dispatcher
	sender     *recordingSender
	store      *fakestate.Store
	pool       *worker.Pool
	bus        *event.MemoryBus
}

func newHarness(t *testing.T, repo Repository) *harness {
	t.Helper()
	store := fakestate.New()
	sender := newRecordingSender()
	pool := worker.NewPool(4, 64, time.Second)
	pool.Start(context.Background())
	catalog := testCatalog()

	d := NewDispatcher(repo, store, sender, catalog, danger.NewDetector(store, catalog), pool)
	bus := event.NewMemoryBus()
	d.Register(bus)
	return &harness{dispatcher: d, sender: sender, store: store, pool: pool, bus: bus}
}

func activeBattle(kills int) domain.Battle {
	start := time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC)
	return domain.Battle{
		ID:         42,
		SystemID:   jitaID,
		Status:     domain.BattleStatusActive,
		StartedAt:  start,
		LastKillAt: start.Add(5 * time.Minute),
		TotalKills: kills,
		TotalValue: 60_000_000,
	}
}

func TestDispatcher_ConcurrentMilestoneSendsOnce(t *testing.T) {
	repo := newCASRepository()
	repo.milestone[42] = domain.NewBattleMilestone
	h := newHarness(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := h.bus.Publish(context.Background(), event.NewBattleMilestoneEvent(activeBattle(10), 10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	h.pool.Stop()

	require.Equal(t, 1, h.sender.sentCount())
	assert.Equal(t, "Jita: 10 kills", h.sender.sent[0].Title)
	assert.Equal(t, "msg-Jita: 10 kills", repo.messages[42], "handle stored for the later edit")
}

func TestDispatcher_FirstClaimIsNewBattle(t *testing.T) {
	repo := new(MockRepository)
	h := newHarness(t, repo)
	b := activeBattle(5)

	repo.On("ClaimBattleMilestone", mock.Anything, int64(42), domain.NewBattleMilestone).Return(0, true, nil).Once()
	repo.On("SetBattleMessage", mock.Anything, int64(42), "msg-Battle in Jita").Return(nil).Once()

	require.NoError(t, h.bus.Publish(context.Background(), event.NewBattleMilestoneEvent(b, domain.NewBattleMilestone)))
	h.pool.Stop()

	require.Equal(t, 1, h.sender.sentCount())
	embed := h.sender.sent[0]
	assert.Equal(t, "Battle in Jita", embed.Title)
	assert.Equal(t, colorNewBattle, embed.Color)
	repo.AssertExpectations(t)
}

func TestDispatcher_LostClaimSendsNothing(t *testing.T) {
	repo := new(MockRepository)
	h := newHarness(t, repo)

	repo.On("ClaimBattleMilestone", mock.Anything, int64(42), 25).Return(25, false, nil).Once()

	require.NoError(t, h.bus.Publish(context.Background(), event.NewBattleMilestoneEvent(activeBattle(25), 25)))
	h.pool.Stop()

	assert.Zero(t, h.sender.sentCount())
	repo.AssertNotCalled(t, "SetBattleMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	repo := new(MockRepository)
	h := newHarness(t, repo)
	h.sender.err = errors.New("discord 503")

	repo.On("ClaimBattleMilestone", mock.Anything, int64(42), 10).Return(1, true, nil).Once()

	require.NoError(t, h.bus.Publish(context.Background(), event.NewBattleMilestoneEvent(activeBattle(10), 10)))
	h.pool.Stop()

	repo.AssertNotCalled(t, "SetBattleMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_BattleEndedEditsStoredHandle(t *testing.T) {
	repo := newCASRepository()
	repo.messages[42] = "msg-123"
	h := newHarness(t, repo)

	b := activeBattle(30)
	b.Status = domain.BattleStatusEnded
	participants := []domain.BattleParticipant{{BattleID: 42, AllianceID: 99, Kills: 20}}

	require.NoError(t, h.bus.Publish(context.Background(), event.NewBattleEndedEvent(b, participants)))
	require.NoError(t, h.bus.Publish(context.Background(), event.NewBattleEndedEvent(b, participants)))
	h.pool.Stop()

	assert.Zero(t, h.sender.sentCount())
	require.Contains(t, h.sender.edits, "msg-123")
	assert.Equal(t, "Battle over in Jita", h.sender.edits["msg-123"].Title)
	assert.Len(t, h.sender.edits, 1)
}

func TestDispatcher_BattleEndedWithoutHandleSends(t *testing.T) {
	h := newHarness(t, newCASRepository())

	b := activeBattle(3)
	b.Status = domain.BattleStatusEnded

	require.NoError(t, h.bus.Publish(context.Background(), event.NewBattleEndedEvent(b, nil)))
	h.pool.Stop()

	assert.Equal(t, 1, h.sender.sentCount())
	assert.Empty(t, h.sender.edits)
}

func TestDispatcher_CatastrophicLossOncePerKillmail(t *testing.T) {
	h := newHarness(t, newCASRepository())
	km := domain.Killmail{
		ID:            987654,
		SystemID:      jitaID,
		Victim:        domain.Victim{ShipTypeID: 23913, AllianceID: 1354830081},
		AttackerCount: 140,
		Value:         24_000_000_000,
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, h.bus.Publish(context.Background(), event.NewCatastrophicLossEvent(km, 0)))
	}
	h.pool.Stop()

	require.Equal(t, 1, h.sender.sentCount())
	assert.Equal(t, "Nyx destroyed in Jita", h.sender.sent[0].Title)
	assert.Equal(t, "https://zkillboard.com/kill/987654/", h.sender.sent[0].URL)
}

func TestDispatcher_ConflictMilestoneClaimPerMilestone(t *testing.T) {
	h := newHarness(t, newCASRepository())
	c := domain.Conflict{ID: 5, AllianceA: 100, AllianceB: 200, KillsA: 30, KillsB: 20}

	require.NoError(t, h.bus.Publish(context.Background(), event.NewConflictMilestoneEvent(c, 50)))
	require.NoError(t, h.bus.Publish(context.Background(), event.NewConflictMilestoneEvent(c, 50)))
	c.KillsA = 80
	require.NoError(t, h.bus.Publish(context.Background(), event.NewConflictMilestoneEvent(c, 100)))
	h.pool.Stop()

	assert.Equal(t, 2, h.sender.sentCount())
}

func TestDispatcher_EnqueueAfterStopFails(t *testing.T) {
	h := newHarness(t, newCASRepository())
	h.pool.Stop()

	err := h.bus.Publish(context.Background(), event.NewBattleMilestoneEvent(activeBattle(10), 10))

	assert.Error(t, err)
}

func TestDispatcher_IgnoresOtherEvents(t *testing.T) {
	h := newHarness(t, newCASRepository())

	err := h.dispatcher.HandleEvent(context.Background(), event.NewHotspotDetectedEvent(jitaID, 5, time.Now()))
	h.pool.Stop()

	assert.NoError(t, err)
	assert.Zero(t, h.sender.sentCount())
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	store := fakestate.New()
	sender := newRecordingSender()
	sender.hold = make(chan struct{})
	sender.entered = make(chan struct{}, 4)
	pool := worker.NewPool(1, 1, 0)
	pool.Start(context.Background())
	catalog := testCatalog()
	d := NewDispatcher(newCASRepository(), store, sender, catalog, danger.NewDetector(store, catalog), pool)

	loss := func(id int64) event.Event {
		return event.NewCatastrophicLossEvent(domain.Killmail{
			ID: id, SystemID: jitaID, Victim: domain.Victim{ShipTypeID: 23913}, Value: 15_000_000_000,
		}, 0)
	}

	ctx := context.WithoutCancel(context.Background())
	require.NoError(t, d.HandleEvent(ctx, loss(1)))
	<-sender.entered
	require.NoError(t, d.HandleEvent(ctx, loss(2)))

	returned := make(chan error, 1)
	go func() { returned <- d.HandleEvent(ctx, loss(3)) }()

	select {
	case err := <-returned:
		assert.ErrorIs(t, err, worker.ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked behind a slow sender")
	}

	close(sender.hold)
	pool.Stop()
	assert.Equal(t, 2, sender.sentCount(), "the dropped alert is not delivered later")
}

func TestDispatcher_DecodesSerializedPayload(t *testing.T) {
	h := newHarness(t, newCASRepository())
	evt := event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.ConflictMilestone,
		Payload: map[string]interface{}{
			"conflict":  map[string]interface{}{"id": 9, "alliance_a": 100, "alliance_b": 200, "kills_a": 60, "kills_b": 40},
			"milestone": 100,
		},
	}

	require.NoError(t, h.dispatcher.HandleEvent(context.Background(), evt))
	h.pool.Stop()

	require.Equal(t, 1, h.sender.sentCount())
	assert.Equal(t, []string{state.ClaimKey(KindConflictMilestone, 9, "100")}, h.store.Claims())
}

func TestDispatcher_MalformedPayloadIsAnError(t *testing.T) {
	h := newHarness(t, newCASRepository())
	evt := event.Event{Type: event.BattleMilestone, Payload: map[string]interface{}{"milestone": "ten"}}

	err := h.dispatcher.HandleEvent(context.Background(), evt)
	h.pool.Stop()

	require.Error(t, err)
	assert.Zero(t, h.sender.sentCount())
}
