package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

// overallSportKey asks for standings across every sport of an event.
const overallSportKey = "overall"

type ScoreResult struct {
	Match     match.Match
	Score     match.Score
	Corrected bool
	// WinnerName is empty for a draw.
	WinnerName string
}

type StandingsService struct {
	store  store.Store
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewStandingsService(st store.Store, idGen idgen.Generator, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		store:  st,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitScore records or corrects a match result. A correction first
// reverses the previous result's contribution to both standings rows, then
// applies the new one, so the net effect equals scoring once.
func (s *StandingsService) SubmitScore(ctx context.Context, principal user.Principal, matchID string, team1Score, team2Score int) (ScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.SubmitScore")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return ScoreResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	var result ScoreResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		m, exists, err := tx.Matches().GetForUpdate(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get match: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: Match not found", ErrNotFound)
		}
		if m.Status == match.StatusCancelled {
			return fmt.Errorf("%w: Cannot score a cancelled match", ErrConflict)
		}
		if s.now().Before(m.MatchDate) {
			return fmt.Errorf("%w: Cannot complete match before scheduled time", ErrConflict)
		}

		score, err := match.NewScore(m, team1Score, team2Score)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		score.UpdatedAt = s.now().UTC()

		previous, corrected, err := tx.Matches().GetScore(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("get previous score: %w", err)
		}
		disqualified, err := disqualifiedRows(ctx, tx.Standings(), m)
		if err != nil {
			return err
		}
		if corrected {
			for _, d := range standing.Reversal(m, previous) {
				if disqualified[d.TeamID] {
					d = d.WithoutResult()
				}
				if err := tx.Standings().ApplyDelta(ctx, m.EventID, m.SportID, d); err != nil {
					return fmt.Errorf("reverse previous result: %w", err)
				}
			}
		}

		if err := tx.Matches().UpsertScore(ctx, score); err != nil {
			return fmt.Errorf("save score: %w", err)
		}
		completed := m
		completed.Status = match.StatusCompleted
		completed.UpdatedAt = score.UpdatedAt
		if err := tx.Matches().Update(ctx, completed); err != nil {
			return fmt.Errorf("complete match: %w", err)
		}
		for _, d := range standing.Outcome(m, score) {
			if disqualified[d.TeamID] {
				d = d.WithoutResult()
			}
			if err := tx.Standings().ApplyDelta(ctx, m.EventID, m.SportID, d); err != nil {
				return fmt.Errorf("apply result: %w", err)
			}
		}

		oldValue := ""
		if corrected {
			oldValue = previous.String()
		}
		entry, err := newAuditEntry(s.idGen, s.now(), m.ID, principal.UserID, audit.ActionScoreUpdated, oldValue, score.String(), "")
		if err != nil {
			return err
		}
		if err := tx.Audit().AppendMatch(ctx, entry); err != nil {
			return fmt.Errorf("append match history: %w", err)
		}

		result = ScoreResult{Match: completed, Score: score, Corrected: corrected}
		switch score.WinnerTeamID {
		case m.Team1ID:
			result.WinnerName = m.Team1Name
		case m.Team2ID:
			result.WinnerName = m.Team2Name
		}
		return nil
	})
	if err != nil {
		return ScoreResult{}, err
	}

	s.logger.InfoContext(ctx, "match score recorded",
		"match_id", result.Match.ID,
		"score", result.Score.String(),
		"corrected", result.Corrected,
	)
	return result, nil
}

// Table returns standings ordered with disqualified teams last. The sport
// "overall" or an empty sport lists every sport of the event.
func (s *StandingsService) Table(ctx context.Context, eventID, sportID string) ([]standing.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Table")
	defer span.End()

	filter := standing.Filter{EventID: strings.TrimSpace(eventID)}
	if sportID = strings.TrimSpace(sportID); sportID != "" && sportID != overallSportKey {
		filter.SportID = sportID
	}

	rows, err := s.store.Standings().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	standing.Sort(rows)
	return rows, nil
}

// disqualifiedRows reports which of the match's teams have a disqualified
// standings row.
func disqualifiedRows(ctx context.Context, repo standing.Repository, m match.Match) (map[string]bool, error) {
	out := make(map[string]bool, 2)
	for _, teamID := range []string{m.Team1ID, m.Team2ID} {
		row, ok, err := repo.Get(ctx, m.EventID, m.SportID, teamID)
		if err != nil {
			return nil, fmt.Errorf("get standing: %w", err)
		}
		out[teamID] = ok && row.Disqualified
	}
	return out, nil
}
