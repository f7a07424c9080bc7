// internal/client/e2e_test.go
package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jason-s-yu/sanctum/internal/board"
	"github.com/jason-s-yu/sanctum/internal/game"
	"github.com/jason-s-yu/sanctum/internal/handlers"
	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func e2eCatalog() models.Catalog {
	return models.Catalog{
		"sanc-001":  {ID: "sanc-001", Title: "Reliquary", Faction: models.Sanctum, Data: models.CardType{Kind: models.KindAncientArtifact, VP: 2, Attunement: 3}},
		"sanc-002":  {ID: "sanc-002", Title: "Vigil", Faction: models.Sanctum, Data: models.CardType{Kind: models.KindEvent, Cost: 1}},
		"thief-001": {ID: "thief-001", Title: "Fence", Faction: models.Thief, Data: models.CardType{Kind: models.KindAlly}},
		"thief-002": {ID: "thief-002", Title: "Smoke Cloak", Faction: models.Thief, Data: models.CardType{Kind: models.KindMagicalGear}},
	}
}

func startServer(t *testing.T) string {
	m, err := game.NewMatch(e2eCatalog(), quietLogger())
	require.NoError(t, err)
	s := handlers.NewMatchServer(m, quietLogger(), handlers.Options{})
	mux := http.NewServeMux()
	mux.HandleFunc("/match/ws", handlers.MatchWSHandler(s))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/match/ws"
}

func joinApp(t *testing.T, url, name string, f models.Faction) *App {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sess, err := Dial(ctx, url, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })

	a, err := NewApp(sess, name, f, 2*time.Second, quietLogger())
	require.NoError(t, err)
	runUntil(t, func() bool { return a.Ready() }, a)
	return a
}

// runUntil ticks every app until cond holds or two seconds pass.
func runUntil(t *testing.T, cond func() bool, apps ...*App) {
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "condition not reached in time")
		for _, a := range apps {
			require.NoError(t, a.Frame(board.Input{Pointer: board.Vec3{X: 50, Z: 50}}))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEndToEndInitLaysOutHand(t *testing.T) {
	url := startServer(t)
	alice := joinApp(t, url, "alice", models.Sanctum)

	myHand, _ := alice.Board.FindZone(board.ZoneHand, true)
	theirHand, _ := alice.Board.FindZone(board.ZoneHand, false)
	hand := alice.Board.Attached(myHand)
	require.Len(t, hand, game.OpeningHandSize)

	spacing := 2 * (board.CardHalfSize.X + board.RowMargin)
	for i := 1; i < len(hand); i++ {
		assert.True(t, hand[i].State.IsRevealed())
		assert.InDelta(t, -spacing, hand[i].Position.X-hand[i-1].Position.X, 1e-4)
	}
	for _, c := range alice.Board.Attached(theirHand) {
		assert.False(t, c.State.IsRevealed())
	}
}

func TestEndToEndDrawSeenByBoth(t *testing.T) {
	url := startServer(t)
	alice := joinApp(t, url, "alice", models.Sanctum)
	bob := joinApp(t, url, "bob", models.Thief)
	runUntil(t, func() bool { return alice.Opponent != nil && bob.Opponent != nil }, alice, bob)
	assert.Equal(t, "alice", bob.Opponent.Name)

	dragDeckToHand(t, alice)
	require.True(t, alice.Board.PendingDraw())

	aliceHand, _ := alice.Board.FindZone(board.ZoneHand, true)
	bobView, _ := bob.Board.FindZone(board.ZoneHand, false)
	runUntil(t, func() bool {
		return len(alice.Board.Attached(aliceHand)) == game.OpeningHandSize+1 &&
			len(bob.Board.Attached(bobView)) == game.OpeningHandSize+1
	}, alice, bob)
	assert.False(t, alice.Board.PendingDraw())

	// Attachment order puts the drawn card last in both views.
	mine := alice.Board.Attached(aliceHand)
	theirs := bob.Board.Attached(bobView)
	drawn := mine[len(mine)-1]
	seen := theirs[len(theirs)-1]
	assert.Equal(t, drawn.InstanceID(), seen.InstanceID())
	assert.True(t, drawn.State.IsRevealed())
	assert.False(t, seen.State.IsRevealed())
}
