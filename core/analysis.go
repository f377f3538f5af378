package core

import (
	"fmt"
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
)

// beginRun opens a run in the analysis store when tracking is configured.
// A zero id means the run is not tracked.
func beginRun(mgr contract.CacheManager, params schema.RunParams) int64 {
	store := analysisStoreOf(mgr)
	if store == nil {
		return 0
	}
	runID, err := store.BeginRun(time.Now(), params)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return 0
	}
	return runID
}

// finishRun stores the ratings of a tracked run and closes it.
// Failures are reported and never abort the calculation.
func finishRun(mgr contract.CacheManager, runID int64, ratings []schema.TeamRating) {
	store := analysisStoreOf(mgr)
	if store == nil || runID <= 0 {
		return
	}
	if err := store.RecordTeamRatings(runID, ratings); err != nil {
		logTrackingError("RecordTeamRatings", runID, err)
	}
	if err := store.EndRun(runID, time.Now(), len(ratings)); err != nil {
		logTrackingError("EndRun", runID, err)
	}
}

func analysisStoreOf(mgr contract.CacheManager) contract.AnalysisStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetAnalysisStore()
}

// logTrackingError logs database tracking errors to stderr without disrupting the run.
func logTrackingError(operation string, runID int64, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on run %d", operation, runID), err)
}

// ratingsFromLists merges both views into one rating per team.
// A team playing twice in a gameweek keeps its easiest entry in each list.
func ratingsFromLists(lists schema.FDRLists) []schema.TeamRating {
	type defenceEntry struct {
		rank  int
		value float64
	}
	defence := make(map[int]defenceEntry, len(lists.Defence))
	for i, r := range lists.Defence {
		if _, ok := defence[r.Team]; !ok {
			defence[r.Team] = defenceEntry{rank: i + 1, value: r.Defence}
		}
	}

	seen := make(map[int]bool, len(lists.Attack))
	ratings := make([]schema.TeamRating, 0, len(lists.Attack))
	for i, r := range lists.Attack {
		if seen[r.Team] {
			continue
		}
		seen[r.Team] = true
		ratings = append(ratings, schema.TeamRating{
			TeamID:      r.Team,
			TeamName:    r.TeamName,
			Attack:      r.Attack,
			Defence:     defence[r.Team].value,
			Variance:    r.Variance,
			HomeMatches: r.HomeMatches,
			AttackRank:  i + 1,
			DefenceRank: defence[r.Team].rank,
		})
	}
	return ratings
}

// ratingsFromSchedules turns schedule averages into ratings.
func ratingsFromSchedules(schedules []schema.TeamSchedule) []schema.TeamRating {
	ratings := make([]schema.TeamRating, len(schedules))
	for i, s := range schedules {
		home := 0
		for _, f := range s.Fixtures {
			if f.IsHome {
				home++
			}
		}
		ratings[i] = schema.TeamRating{
			TeamID:      s.TeamID,
			TeamName:    s.TeamName,
			Attack:      s.AverageAttackFDR,
			Defence:     s.AverageDefenceFDR,
			HomeMatches: home,
			AttackRank:  s.AttackFDRRank,
			DefenceRank: s.DefenceFDRRank,
		}
	}
	return ratings
}
