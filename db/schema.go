package db

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tournaments (
		id            TEXT PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		players       TEXT[] NOT NULL,
		scoring_mode  TEXT NOT NULL CHECK (scoring_mode IN ('POINTS', 'WIN_LOSS')),
		allow_draws   BOOLEAN NOT NULL DEFAULT FALSE,
		schedule_mode TEXT NOT NULL DEFAULT 'ROTATION',
		shared_at     TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id            TEXT PRIMARY KEY,
		tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		team1         TEXT[] NOT NULL CHECK (cardinality(team1) = 2),
		team2         TEXT[] NOT NULL CHECK (cardinality(team2) = 2),
		score1        INTEGER,
		score2        INTEGER,
		winner        TEXT NOT NULL DEFAULT '' CHECK (winner IN ('', 'team1', 'team2', 'draw')),
		is_complete   BOOLEAN NOT NULL DEFAULT FALSE,
		order_index   INTEGER NOT NULL,
		UNIQUE (tournament_id, order_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_tournament_order ON matches (tournament_id, order_index)`,
}
