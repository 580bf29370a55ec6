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

// Justification: ProfileStore.Save/Get span five tables (profiles,
// schedule_slots, activity_windows, pinned_assignments, recipes for the FK)
// behind one logical round trip; only a real Postgres instance exercises
// the JSONB columns and the replace-on-save delete/reinsert pattern.
type ProfileStoreSuite struct {
	suite.Suite
	pg       *testutil.PostgresContainer
	db       *sql.DB
	profiles *store.ProfileStore
	recipes  *store.RecipeStore
	ctx      context.Context
}

func TestProfileStoreSuite(t *testing.T) {
	suite.Run(t, new(ProfileStoreSuite))
}

func (s *ProfileStoreSuite) SetupSuite() {
	s.pg = testutil.SetupPostgres(s.T())
	s.db = s.pg.DB
}

func (s *ProfileStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.pg.ClearTables(s.ctx))
	s.profiles = store.NewProfileStore(s.db)
	s.recipes = store.NewRecipeStore(s.db)
}

func (s *ProfileStoreSuite) fullProfile() domain.Profile {
	maxCalories := 2600
	return domain.Profile{
		DailyCalories:    2400,
		DailyProteinG:    180,
		DailyFatG:        domain.MacroRange{Min: 60, Max: 90},
		DailyCarbsG:      260,
		MaxDailyCalories: &maxCalories,
		Demographic:      "adult_male",
		Schedule: domain.Schedule{
			Days: []domain.Day{
				{
					Slots: []domain.Slot{
						{Time: domain.ClockTime(7 * 60), Busyness: domain.BusynessModerate, MealLabel: "breakfast"},
						{Time: domain.ClockTime(12 * 60), Busyness: domain.BusynessBusy, MealLabel: "lunch"},
						{Time: domain.ClockTime(19 * 60), Busyness: domain.BusynessRelaxed, MealLabel: "dinner"},
					},
					Activities: []domain.ActivityEntry{
						{StartTime: domain.ClockTime(17 * 60), EndTime: domain.ClockTime(18 * 60)},
					},
				},
				{
					Slots: []domain.Slot{
						{Time: domain.ClockTime(8 * 60), Busyness: domain.BusynessUnbounded, MealLabel: "breakfast"},
					},
				},
			},
		},
		ExcludedIngredients: map[string]bool{"peanuts": true, "shellfish": true},
		LikedFoods:          map[string]bool{"salmon": true},
		UpperLimitOverrides: map[string]*float64{"sodium_mg": floatPtr(2000)},
		PinnedAssignments: map[domain.SlotKey]string{
			{DayIndex: 0, SlotIndex: 0}: "oatmeal",
		},
		MicronutrientTargets: map[string]float64{"iron_mg": 18, "calcium_mg": 1000},
	}
}

func floatPtr(v float64) *float64 { return &v }

func (s *ProfileStoreSuite) TestSaveAndGetRoundTrip() {
	s.Require().NoError(s.recipes.Upsert(s.ctx, domain.Recipe{
		ID:        "oatmeal",
		Name:      "Oatmeal",
		Nutrition: domain.Nutrition{Micronutrients: map[string]float64{}},
	}))

	profile := s.fullProfile()
	s.Require().NoError(s.profiles.Save(s.ctx, "profile-1", profile))

	got, err := s.profiles.Get(s.ctx, "profile-1")
	s.Require().NoError(err)

	s.Equal(profile.DailyCalories, got.DailyCalories)
	s.Equal(profile.DailyProteinG, got.DailyProteinG)
	s.Equal(profile.DailyFatG, got.DailyFatG)
	s.Equal(profile.DailyCarbsG, got.DailyCarbsG)
	s.Require().NotNil(got.MaxDailyCalories)
	s.Equal(*profile.MaxDailyCalories, *got.MaxDailyCalories)
	s.Equal(profile.Demographic, got.Demographic)
	s.Equal(profile.ExcludedIngredients, got.ExcludedIngredients)
	s.Equal(profile.LikedFoods, got.LikedFoods)
	s.Require().Contains(got.UpperLimitOverrides, "sodium_mg")
	s.Equal(*profile.UpperLimitOverrides["sodium_mg"], *got.UpperLimitOverrides["sodium_mg"])
	s.Equal(profile.MicronutrientTargets, got.MicronutrientTargets)
	s.Equal(profile.PinnedAssignments, got.PinnedAssignments)

	s.Require().Len(got.Schedule.Days, 2)
	s.Require().Len(got.Schedule.Days[0].Slots, 3)
	s.Equal(profile.Schedule.Days[0].Slots, got.Schedule.Days[0].Slots)
	s.Equal(profile.Schedule.Days[0].Activities, got.Schedule.Days[0].Activities)
	s.Require().Len(got.Schedule.Days[1].Slots, 1)
	s.Empty(got.Schedule.Days[1].Activities)
}

func (s *ProfileStoreSuite) TestSaveReplacesPriorScheduleAndPins() {
	s.Require().NoError(s.recipes.Upsert(s.ctx, domain.Recipe{
		ID:        "oatmeal",
		Nutrition: domain.Nutrition{Micronutrients: map[string]float64{}},
	}))
	s.Require().NoError(s.recipes.Upsert(s.ctx, domain.Recipe{
		ID:        "salad",
		Nutrition: domain.Nutrition{Micronutrients: map[string]float64{}},
	}))

	profile := s.fullProfile()
	s.Require().NoError(s.profiles.Save(s.ctx, "profile-1", profile))

	profile.Schedule = domain.Schedule{
		Days: []domain.Day{
			{Slots: []domain.Slot{{Time: domain.ClockTime(600), Busyness: domain.BusynessRelaxed, MealLabel: "brunch"}}},
		},
	}
	profile.PinnedAssignments = map[domain.SlotKey]string{
		{DayIndex: 0, SlotIndex: 0}: "salad",
	}
	s.Require().NoError(s.profiles.Save(s.ctx, "profile-1", profile))

	got, err := s.profiles.Get(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Require().Len(got.Schedule.Days, 1)
	s.Require().Len(got.Schedule.Days[0].Slots, 1)
	s.Equal("brunch", got.Schedule.Days[0].Slots[0].MealLabel)
	s.Equal(map[domain.SlotKey]string{{DayIndex: 0, SlotIndex: 0}: "salad"}, got.PinnedAssignments)
}

func (s *ProfileStoreSuite) TestGetMissingProfileErrors() {
	_, err := s.profiles.Get(s.ctx, "does-not-exist")
	s.Error(err)
}

func (s *ProfileStoreSuite) TestSaveWithoutMaxDailyCaloriesOrPins() {
	profile := s.fullProfile()
	profile.MaxDailyCalories = nil
	profile.PinnedAssignments = map[domain.SlotKey]string{}

	s.Require().NoError(s.profiles.Save(s.ctx, "profile-2", profile))

	got, err := s.profiles.Get(s.ctx, "profile-2")
	s.Require().NoError(err)
	s.Nil(got.MaxDailyCalories)
	s.Empty(got.PinnedAssignments)
}
