/* models.go
 * Contains the structs and result codes that make up the tournament aggregate. Everything here serializes to
 * plain key-value documents (bson/json) so a tournament round-trips losslessly through the store
 * Authors: Zachary Bower
 */

package tournament

// ResultCode identifies the outcome of a pairing. The zero value means no result has been recorded yet.
// Scoring and rollback switch over these exhaustively; an unknown code is always an error, never a fallthrough.
type ResultCode string

const (
	ResultNone       ResultCode = ""
	ResultBye        ResultCode = "bye"
	ResultPlayer1Win ResultCode = "player1_win"
	ResultPlayer2Win ResultCode = "player2_win"
	ResultDraw       ResultCode = "draw"
	ResultDoubleLoss ResultCode = "double_loss"
)

// Per-player result entry types stored in Player.Results
const (
	entryWin  = "win"
	entryLoss = "loss"
	entryDraw = "draw"
	entryBye  = "bye"
)

// ResultEntry is one scored outcome for one player. PairingID is the undo token: corrections remove
// entries by (Round, PairingID) rather than matching on points, so identical results in the same
// round can never be confused with each other
type ResultEntry struct {
	Round      int    `bson:"round" json:"round"`
	PairingID  int    `bson:"pairingId" json:"pairingId"`
	Points     int    `bson:"points" json:"points"`
	ResultType string `bson:"resultType" json:"resultType"`
	Timestamp  int64  `bson:"timestamp" json:"timestamp"`
}

// Player is a tournament participant. Score is the running primary score; Buchholz, SOSBuchholz,
// OMWPercentage and OOMWPercentage are tie-break statistics recomputed wholesale by UpdateStatistics,
// never maintained incrementally
type Player struct {
	ID             int           `bson:"id" json:"id"`
	Name           string        `bson:"name" json:"name"`
	Score          int           `bson:"score" json:"score"`
	Buchholz       int           `bson:"buchholz" json:"buchholz"`
	SOSBuchholz    int           `bson:"sosBuchholz" json:"sosBuchholz"`
	OMWPercentage  float64       `bson:"omwPercentage" json:"omwPercentage"`
	OOMWPercentage float64       `bson:"oomwPercentage" json:"oomwPercentage"`
	Opponents      []int         `bson:"opponents" json:"opponents"`
	Results        []ResultEntry `bson:"results" json:"results"`
	Dropped        bool          `bson:"dropped" json:"dropped"`
	ByeCount       int           `bson:"byeCount" json:"byeCount"`
	Rank           int           `bson:"rank" json:"rank"`
}

// Pairing is one match within a round. Player1 and Player2 are value snapshots taken at pairing time
// so historical rounds keep displaying the scores players had when they were paired; they are never
// live references into the roster. Player2 is nil for a bye
type Pairing struct {
	ID             int        `bson:"id" json:"id"`
	Player1        Player     `bson:"player1" json:"player1"`
	Player2        *Player    `bson:"player2" json:"player2"`
	Result         ResultCode `bson:"result" json:"result"`
	Completed      bool       `bson:"completed" json:"completed"`
	Corrected      bool       `bson:"corrected" json:"corrected"`
	OriginalResult ResultCode `bson:"originalResult" json:"originalResult"`
	CorrectionTime int64      `bson:"correctionTime" json:"correctionTime"`
}

// Round holds the pairings of one round. Completed flips to true the moment the last pairing
// receives a result
type Round struct {
	Round       int       `bson:"round" json:"round"`
	Pairings    []Pairing `bson:"pairings" json:"pairings"`
	Completed   bool      `bson:"completed" json:"completed"`
	StartedAt   int64     `bson:"startedAt" json:"startedAt"`
	CompletedAt int64     `bson:"completedAt" json:"completedAt"`
}

// Settings holds the scoring configuration fixed at initialization
type Settings struct {
	WinPoints       int  `bson:"winPoints" json:"winPoints"`
	DrawPoints      int  `bson:"drawPoints" json:"drawPoints"`
	LossPoints      int  `bson:"lossPoints" json:"lossPoints"`
	ByePoints       int  `bson:"byePoints" json:"byePoints"`
	AllowDraws      bool `bson:"allowDraws" json:"allowDraws"`
	AllowDoubleLoss bool `bson:"allowDoubleLoss" json:"allowDoubleLoss"`
}

// Tournament is the aggregate root. CurrentRound is 0 before the first round starts and equals
// len(Rounds) once started. Membership of Players is fixed after initialization; players can only
// be dropped, never added
type Tournament struct {
	TournamentID   string   `bson:"tournamentId" json:"tournamentId"`
	TournamentName string   `bson:"tournamentName" json:"tournamentName"`
	Players        []Player `bson:"players" json:"players"`
	Rounds         []Round  `bson:"rounds" json:"rounds"`
	CurrentRound   int      `bson:"currentRound" json:"currentRound"`
	TotalRounds    int      `bson:"totalRounds" json:"totalRounds"`
	IsFinished     bool     `bson:"isFinished" json:"isFinished"`
	Settings       Settings `bson:"settings" json:"settings"`
	CreatedAt      int64    `bson:"createdAt" json:"createdAt"`
	FinishedAt     int64    `bson:"finishedAt" json:"finishedAt"`
}

// Options are the caller-supplied initialization settings
type Options struct {
	TournamentName  string
	AllowDraws      bool
	AllowDoubleLoss bool
	// CustomRounds overrides the automatic round count when > 0. Floored at 3 like the automatic value.
	CustomRounds int
}

// CustomPairing is one entry of a caller-supplied manual pairing set. Player2ID == 0 marks a bye
type CustomPairing struct {
	Player1ID int `json:"player1Id"`
	Player2ID int `json:"player2Id"`
}

// Statistics is a read-only snapshot of tournament progress plus refreshed per-player tie-break stats
type Statistics struct {
	TournamentID    string   `json:"tournamentId"`
	TournamentName  string   `json:"tournamentName"`
	CurrentRound    int      `json:"currentRound"`
	TotalRounds     int      `json:"totalRounds"`
	CompletedRounds int      `json:"completedRounds"`
	ActivePlayers   int      `json:"activePlayers"`
	IsFinished      bool     `json:"isFinished"`
	Players         []Player `json:"players"`
}
