package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/kratos-viewer/models"
)

// postgresRepository читает архив завершённых матчей. Схема:
//
//	archived_matches(id text, team1 text, team2 text, status text,
//	                 team1_score int, team2_score int, maps jsonb, exported_at timestamptz)
//	archived_match_events(match_id text, position int, map_number int, round_number int,
//	                      event_type text, killer_name text, victim_name text, weapon text,
//	                      log_text text, is_headshot bool, is_wallbang bool,
//	                      is_through_smoke bool, is_no_scope bool, is_blind_kill bool)
type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) MatchRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Name() string {
	return "static"
}

const selectArchivedMatch = `
		SELECT id, team1, team2, status, team1_score, team2_score, maps
		FROM archived_matches`

func (r *postgresRepository) ListMatches(ctx context.Context) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, selectArchivedMatch+" ORDER BY exported_at DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list archived matches: %w", ErrSourceUnreachable, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, err := scanArchivedMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating archived matches: %w", ErrSourceUnavailable, err)
	}
	return matches, nil
}

func (r *postgresRepository) GetMatch(ctx context.Context, id models.MatchID) (*models.Match, error) {
	row := r.db.QueryRowContext(ctx, selectArchivedMatch+" WHERE id = $1", id.String())
	match, err := scanArchivedMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: archived match %s", ErrRecordNotFound, id)
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresRepository) ListEvents(ctx context.Context, id models.MatchID) ([]models.Event, error) {
	query := `
		SELECT map_number, round_number, event_type, killer_name, victim_name, weapon, log_text,
		       is_headshot, is_wallbang, is_through_smoke, is_no_scope, is_blind_kill
		FROM archived_match_events
		WHERE match_id = $1
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list events for archived match %s: %w", ErrSourceUnreachable, id, err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var (
			e                         models.Event
			mapNumber, roundNumber    sql.NullInt64
			eventType, killer, victim sql.NullString
			weapon, logText           sql.NullString
			headshot, wallbang, smoke sql.NullBool
			noScope, blind            sql.NullBool
		)
		if err := rows.Scan(&mapNumber, &roundNumber, &eventType, &killer, &victim, &weapon, &logText,
			&headshot, &wallbang, &smoke, &noScope, &blind); err != nil {
			return nil, fmt.Errorf("failed to scan archived event for match %s: %w", id, err)
		}
		e.MapNumber = int(mapNumber.Int64)
		e.RoundNumber = int(roundNumber.Int64)
		e.EventType = models.ParseEventType(eventType.String)
		e.KillerName = killer.String
		e.VictimName = victim.String
		e.Weapon = weapon.String
		e.LogText = logText.String
		e.IsHeadshot = headshot.Bool
		e.IsWallbang = wallbang.Bool
		e.IsThroughSmoke = smoke.Bool
		e.IsNoScope = noScope.Bool
		e.IsBlindKill = blind.Bool
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating archived events: %w", ErrSourceUnavailable, err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArchivedMatch(row rowScanner) (*models.Match, error) {
	var (
		id                     string
		team1, team2, status   sql.NullString
		team1Score, team2Score sql.NullInt64
		mapsJSON               []byte
	)
	if err := row.Scan(&id, &team1, &team2, &status, &team1Score, &team2Score, &mapsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan archived match: %w", err)
	}

	match := &models.Match{
		ID:     models.MatchID(id),
		Team1:  team1.String,
		Team2:  team2.String,
		Status: status.String,
	}
	if team1Score.Valid && team2Score.Valid {
		match.Score = &models.SeriesScore{Team1: int(team1Score.Int64), Team2: int(team2Score.Int64)}
	}
	if len(mapsJSON) > 0 {
		if err := json.Unmarshal(mapsJSON, &match.Maps); err != nil {
			// Битые данные по картам не должны прятать сам матч
			match.Maps = nil
		}
	}
	return match, nil
}
