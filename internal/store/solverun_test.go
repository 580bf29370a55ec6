package store_test

import (
	"context"
	"database/sql"
	"testing"

	"mealplansolver/internal/domain"
	"mealplansolver/internal/store"
	"mealplansolver/internal/testutil"

	"github.com/stretchr/testify/suite"
)

// Justification: solve_runs is a diagnostic write path with no Store-layer
// reader; this confirms the JSONB report/stats columns actually accept the
// encoded payloads rather than failing at the driver boundary.
type SolveRunStoreSuite struct {
	suite.Suite
	pg      *testutil.PostgresContainer
	db      *sql.DB
	runs    *store.SolveRunStore
	profile *store.ProfileStore
	ctx     context.Context
}

func TestSolveRunStoreSuite(t *testing.T) {
	suite.Run(t, new(SolveRunStoreSuite))
}

func (s *SolveRunStoreSuite) SetupSuite() {
	s.pg = testutil.SetupPostgres(s.T())
	s.db = s.pg.DB
}

func (s *SolveRunStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.pg.ClearTables(s.ctx))
	s.runs = store.NewSolveRunStore(s.db)
	s.profile = store.NewProfileStore(s.db)
}

// insertMinimalProfile satisfies solve_runs' foreign key on profile_id; the
// profile's content is irrelevant to these tests.
func (s *SolveRunStoreSuite) insertMinimalProfile(id string) {
	profile := domain.Profile{
		DailyCalories: 2000,
		DailyProteinG: 150,
		DailyFatG:     domain.MacroRange{Min: 50, Max: 80},
		DailyCarbsG:   200,
		Schedule: domain.Schedule{
			Days: []domain.Day{
				{Slots: []domain.Slot{{Busyness: domain.BusynessRelaxed}}},
			},
		},
	}
	s.Require().NoError(s.profile.Save(s.ctx, id, profile))
}

func (s *SolveRunStoreSuite) TestRecordSuccessRun() {
	s.insertMinimalProfile("profile-a")

	err := s.runs.Record(s.ctx, store.RunRecord{
		ProfileID:   "profile-a",
		Success:     true,
		Termination: "TC-1",
		Report:      map[string]any{"summary": "ok"},
		Stats:       map[string]any{"attempts": 3, "backtracks": 1},
	})
	s.Require().NoError(err)

	var count int
	row := s.db.QueryRowContext(s.ctx, `SELECT count(*) FROM solve_runs WHERE profile_id = $1`, "profile-a")
	s.Require().NoError(row.Scan(&count))
	s.Equal(1, count)
}

func (s *SolveRunStoreSuite) TestRecordFailureRun() {
	s.insertMinimalProfile("profile-b")

	err := s.runs.Record(s.ctx, store.RunRecord{
		ProfileID:   "profile-b",
		Success:     false,
		FailureMode: "FM-4",
		Termination: "TC-2",
		Report:      map[string]any{"deficiency_classification": "structural"},
		Stats:       map[string]any{"attempts": 100000},
	})
	s.Require().NoError(err)

	var success bool
	var failureMode string
	row := s.db.QueryRowContext(s.ctx,
		`SELECT success, failure_mode FROM solve_runs WHERE profile_id = $1`, "profile-b")
	s.Require().NoError(row.Scan(&success, &failureMode))
	s.False(success)
	s.Equal("FM-4", failureMode)
}

func (s *SolveRunStoreSuite) TestRecordMultipleRunsForSameProfile() {
	s.insertMinimalProfile("profile-c")

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.runs.Record(s.ctx, store.RunRecord{
			ProfileID:   "profile-c",
			Success:     true,
			Termination: "TC-1",
			Report:      map[string]any{},
			Stats:       map[string]any{},
		}))
	}

	var count int
	row := s.db.QueryRowContext(s.ctx, `SELECT count(*) FROM solve_runs WHERE profile_id = $1`, "profile-c")
	s.Require().NoError(row.Scan(&count))
	s.Equal(3, count)
}
