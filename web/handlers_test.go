/* handlers_test.go
 * Contains unit tests for the read-only JSON view handlers
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"swiss-td/engine"
	"swiss-td/engine/store"
	"swiss-td/engine/tournament"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestServer builds a Server over an engine API with an in-memory store and a 4 player
// tournament initialized
func newTestServer(t *testing.T) (*Server, *engine.API) {
	t.Helper()
	api := engine.NewAPIWithStore(engine.NewMockStore())
	require.NoError(t, api.Initialize([]string{"Alice", "Bob", "Carol", "Dave"}, tournament.Options{}))
	return NewServer(api), api
}

func get(handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// region TournamentHandler tests

func TestTournamentHandler_ServesAggregate(t *testing.T) {
	server, api := newTestServer(t)

	rec := get(server.TournamentHandler, "/tournament")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload tournament.Tournament
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, api.Current().TournamentID, payload.TournamentID)
	assert.Len(t, payload.Players, 4)
}

func TestTournamentHandler_NoTournament(t *testing.T) {
	server := NewServer(engine.NewAPIWithStore(engine.NewMockStore()))

	rec := get(server.TournamentHandler, "/tournament")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTournamentHandler_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/tournament", nil)
	rec := httptest.NewRecorder()
	server.TournamentHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// endregion

// region PairingsHandler tests

func TestPairingsHandler_ServesCurrentRound(t *testing.T) {
	server, api := newTestServer(t)
	_, err := api.StartNewRound([]tournament.CustomPairing{
		{Player1ID: 1, Player2ID: 2},
		{Player1ID: 3, Player2ID: 4},
	})
	require.NoError(t, err)

	rec := get(server.PairingsHandler, "/pairings")

	require.Equal(t, http.StatusOK, rec.Code)
	var pairings []tournament.Pairing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pairings))
	require.Len(t, pairings, 2)
	assert.Equal(t, "Alice", pairings[0].Player1.Name)
}

func TestPairingsHandler_NoTournament(t *testing.T) {
	server := NewServer(engine.NewAPIWithStore(engine.NewMockStore()))

	rec := get(server.PairingsHandler, "/pairings")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPairingsHandler_NoRoundStartedServesEmpty(t *testing.T) {
	server, _ := newTestServer(t)

	rec := get(server.PairingsHandler, "/pairings")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())
}

// endregion

// region StandingsHandler tests

func TestStandingsHandler_ServesRanking(t *testing.T) {
	server, api := newTestServer(t)
	_, err := api.StartNewRound([]tournament.CustomPairing{
		{Player1ID: 1, Player2ID: 2},
		{Player1ID: 3, Player2ID: 4},
	})
	require.NoError(t, err)
	require.NoError(t, api.RecordMatchResult(1, 1, tournament.ResultPlayer1Win, nil))
	require.NoError(t, api.RecordMatchResult(1, 2, tournament.ResultPlayer1Win, nil))

	rec := get(server.StandingsHandler, "/standings")

	require.Equal(t, http.StatusOK, rec.Code)
	var ranking []tournament.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranking))
	require.Len(t, ranking, 4)
	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, 3, ranking[0].Score)
}

func TestStandingsHandler_NoTournament(t *testing.T) {
	server := NewServer(engine.NewAPIWithStore(engine.NewMockStore()))

	rec := get(server.StandingsHandler, "/standings")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// endregion

// region HistoryHandler tests

func TestHistoryHandler_ServesEntries(t *testing.T) {
	mock := engine.NewMockStore()
	mock.History = []store.HistoryEntry{
		{TournamentID: "tournament_1", TournamentName: "Thursday Swiss", Winner: "Alice", PlayerCount: 8},
	}
	server := NewServer(engine.NewAPIWithStore(mock))

	rec := get(server.HistoryHandler, "/history")

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []store.HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].Winner)
}

func TestHistoryHandler_EmptyHistory(t *testing.T) {
	server := NewServer(engine.NewAPIWithStore(engine.NewMockStore()))

	rec := get(server.HistoryHandler, "/history")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())
}

// endregion

// region rate limit tests

func TestHandlers_RateLimited(t *testing.T) {
	_, api := newTestServer(t)
	server := &Server{api: api, limiter: rate.NewLimiter(rate.Limit(0), 1)}

	first := get(server.TournamentHandler, "/tournament")
	assert.Equal(t, http.StatusOK, first.Code)

	second := get(server.TournamentHandler, "/tournament")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

// endregion
