// Command seed populates the database with a demonstration profile and
// recipe pool: a 7-day schedule with workout windows, a handful of pinned
// meals, and enough recipes for the solver to have real room to search.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"mealplansolver/internal/config"
	"mealplansolver/internal/db"
	"mealplansolver/internal/domain"
	"mealplansolver/internal/solverlog"
	"mealplansolver/internal/store"
)

const demoProfileID = "demo"

func main() {
	configPath := flag.String("config", "", "path to a config file (defaults to ./configs/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := solverlog.New(cfg.Log.Level)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, db.Config{
		DatabaseURL:     cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		logger.Fatal("running migrations", zap.Error(err))
	}

	recipeStore := store.NewRecipeStore(database.DB)
	profileStore := store.NewProfileStore(database.DB)

	recipes := fixtureRecipes()
	for _, r := range recipes {
		if err := recipeStore.Upsert(ctx, r); err != nil {
			logger.Fatal("seeding recipe", zap.String("id", r.ID), zap.Error(err))
		}
	}
	logger.Info("seeded recipes", zap.Int("count", len(recipes)))

	profile := fixtureProfile()
	if err := profileStore.Save(ctx, demoProfileID, profile); err != nil {
		logger.Fatal("seeding profile", zap.Error(err))
	}
	logger.Info("seeded profile",
		zap.String("id", demoProfileID),
		zap.Int("days", len(profile.Schedule.Days)),
		zap.Int("pinned", len(profile.PinnedAssignments)),
	)
}

// fixtureProfile builds a week-long schedule for a moderately active adult:
// three meals a day, a workout most mornings, and two pinned breakfasts.
func fixtureProfile() domain.Profile {
	schedule := domain.Schedule{Days: make([]domain.Day, 7)}
	for d := range schedule.Days {
		schedule.Days[d] = domain.Day{
			Slots: []domain.Slot{
				{Time: 420, Busyness: domain.BusynessBusy, MealLabel: "breakfast"},
				{Time: 750, Busyness: domain.BusynessModerate, MealLabel: "lunch"},
				{Time: 1140, Busyness: domain.BusynessRelaxed, MealLabel: "dinner"},
			},
		}
		if d%2 == 0 {
			schedule.Days[d].Activities = []domain.ActivityEntry{
				{StartTime: 360, EndTime: 420},
			}
		}
	}

	return domain.Profile{
		DailyCalories:    2400,
		DailyProteinG:    150,
		DailyFatG:        domain.MacroRange{Min: 60, Max: 90},
		DailyCarbsG:      280,
		MaxDailyCalories: nil,
		Schedule:         schedule,
		ExcludedIngredients: map[string]bool{
			"peanut": true,
		},
		LikedFoods: map[string]bool{
			"chicken_breast": true,
			"salmon":         true,
			"oats":           true,
		},
		Demographic:         "adult",
		UpperLimitOverrides: map[string]*float64{},
		PinnedAssignments: map[domain.SlotKey]string{
			{DayIndex: 0, SlotIndex: 0}: "oatmeal_berries",
			{DayIndex: 3, SlotIndex: 0}: "oatmeal_berries",
		},
		MicronutrientTargets: map[string]float64{
			domain.SodiumNutrientName: 2000,
			"calcium_mg":              1000,
			"iron_mg":                 18,
			"zinc_mg":                 11,
			"vitamin_a_mcg":           900,
			"vitamin_d_mcg":           20,
			"vitamin_c_mg":            90,
			"folate_mcg":              400,
			"magnesium_mg":            400,
		},
	}
}

func fixtureRecipes() []domain.Recipe {
	return []domain.Recipe{
		{
			ID:                 "oatmeal_berries",
			Name:               "Oatmeal with Berries",
			CookingTimeMinutes: 10,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "oats"},
				{NormalizedName: "blueberries"},
				{NormalizedName: "almond_milk"},
			},
			Nutrition: domain.Nutrition{
				Calories: 420, ProteinG: 14, FatG: 9, CarbsG: 72, FiberG: 10,
				Micronutrients: map[string]float64{
					"calcium_mg": 180, "iron_mg": 3.2, "magnesium_mg": 90,
					domain.SodiumNutrientName: 95,
				},
			},
			PrimaryCarbContribution: &domain.CarbContribution{
				IngredientName:    "oats",
				OriginalQuantityG: 80,
				Nutrition:         domain.Nutrition{Calories: 300, CarbsG: 54, ProteinG: 10, FiberG: 8},
			},
		},
		{
			ID:                 "greek_yogurt_parfait",
			Name:               "Greek Yogurt Parfait",
			CookingTimeMinutes: 5,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "greek_yogurt"},
				{NormalizedName: "honey"},
				{NormalizedName: "granola"},
			},
			Nutrition: domain.Nutrition{
				Calories: 380, ProteinG: 28, FatG: 8, CarbsG: 48, FiberG: 4,
				Micronutrients: map[string]float64{"calcium_mg": 320, domain.SodiumNutrientName: 110},
			},
		},
		{
			ID:                 "veggie_scramble",
			Name:               "Veggie Egg Scramble",
			CookingTimeMinutes: 12,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "eggs"},
				{NormalizedName: "spinach"},
				{NormalizedName: "bell_pepper"},
			},
			Nutrition: domain.Nutrition{
				Calories: 360, ProteinG: 26, FatG: 24, CarbsG: 8, FiberG: 3,
				Micronutrients: map[string]float64{
					"vitamin_a_mcg": 420, "folate_mcg": 110, domain.SodiumNutrientName: 320,
				},
			},
		},
		{
			ID:                 "grilled_chicken_rice_bowl",
			Name:               "Grilled Chicken Rice Bowl",
			CookingTimeMinutes: 25,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "chicken_breast"},
				{NormalizedName: "brown_rice"},
				{NormalizedName: "broccoli"},
			},
			Nutrition: domain.Nutrition{
				Calories: 620, ProteinG: 48, FatG: 14, CarbsG: 72, FiberG: 6,
				Micronutrients: map[string]float64{
					"iron_mg": 2.8, "zinc_mg": 3.1, domain.SodiumNutrientName: 480,
				},
			},
			PrimaryCarbContribution: &domain.CarbContribution{
				IngredientName:    "brown_rice",
				OriginalQuantityG: 150,
				Nutrition:         domain.Nutrition{Calories: 170, CarbsG: 36, ProteinG: 4, FiberG: 2},
			},
		},
		{
			ID:                 "turkey_avocado_wrap",
			Name:               "Turkey Avocado Wrap",
			CookingTimeMinutes: 8,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "turkey_breast"},
				{NormalizedName: "avocado"},
				{NormalizedName: "whole_wheat_tortilla"},
			},
			Nutrition: domain.Nutrition{
				Calories: 540, ProteinG: 34, FatG: 22, CarbsG: 48, FiberG: 9,
				Micronutrients: map[string]float64{domain.SodiumNutrientName: 610},
			},
		},
		{
			ID:                 "lentil_soup",
			Name:               "Lentil Soup",
			CookingTimeMinutes: 35,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "lentils"},
				{NormalizedName: "carrot"},
				{NormalizedName: "onion"},
			},
			Nutrition: domain.Nutrition{
				Calories: 410, ProteinG: 22, FatG: 6, CarbsG: 62, FiberG: 16,
				Micronutrients: map[string]float64{
					"iron_mg": 4.9, "folate_mcg": 280, domain.SodiumNutrientName: 390,
				},
			},
		},
		{
			ID:                 "salmon_quinoa_plate",
			Name:               "Salmon Quinoa Plate",
			CookingTimeMinutes: 28,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "salmon"},
				{NormalizedName: "quinoa"},
				{NormalizedName: "asparagus"},
			},
			Nutrition: domain.Nutrition{
				Calories: 590, ProteinG: 42, FatG: 24, CarbsG: 46, FiberG: 6,
				Micronutrients: map[string]float64{
					"vitamin_d_mcg": 12, "magnesium_mg": 110, domain.SodiumNutrientName: 280,
				},
			},
			PrimaryCarbContribution: &domain.CarbContribution{
				IngredientName:    "quinoa",
				OriginalQuantityG: 120,
				Nutrition:         domain.Nutrition{Calories: 140, CarbsG: 26, ProteinG: 5, FiberG: 3},
			},
		},
		{
			ID:                 "beef_stir_fry",
			Name:               "Beef and Vegetable Stir Fry",
			CookingTimeMinutes: 20,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "beef_strips"},
				{NormalizedName: "bell_pepper"},
				{NormalizedName: "soy_sauce"},
			},
			Nutrition: domain.Nutrition{
				Calories: 560, ProteinG: 40, FatG: 26, CarbsG: 32, FiberG: 4,
				Micronutrients: map[string]float64{
					"iron_mg": 5.4, "zinc_mg": 6.2, domain.SodiumNutrientName: 890,
				},
			},
		},
		{
			ID:                 "tofu_veggie_curry",
			Name:               "Tofu Vegetable Curry",
			CookingTimeMinutes: 22,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "tofu"},
				{NormalizedName: "coconut_milk"},
				{NormalizedName: "spinach"},
			},
			Nutrition: domain.Nutrition{
				Calories: 480, ProteinG: 24, FatG: 28, CarbsG: 34, FiberG: 7,
				Micronutrients: map[string]float64{
					"calcium_mg": 260, "magnesium_mg": 90, domain.SodiumNutrientName: 520,
				},
			},
		},
		{
			ID:                 "peanut_noodle_bowl",
			Name:               "Peanut Noodle Bowl",
			CookingTimeMinutes: 15,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "rice_noodles"},
				{NormalizedName: "peanut"},
				{NormalizedName: "carrot"},
			},
			Nutrition: domain.Nutrition{
				Calories: 520, ProteinG: 18, FatG: 20, CarbsG: 68, FiberG: 4,
				Micronutrients: map[string]float64{domain.SodiumNutrientName: 680},
			},
		},
		{
			ID:                 "protein_smoothie",
			Name:               "Post-Workout Protein Smoothie",
			CookingTimeMinutes: 5,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "whey_protein"},
				{NormalizedName: "banana"},
				{NormalizedName: "oats"},
			},
			Nutrition: domain.Nutrition{
				Calories: 450, ProteinG: 38, FatG: 6, CarbsG: 60, FiberG: 5,
				Micronutrients: map[string]float64{"magnesium_mg": 70, domain.SodiumNutrientName: 150},
			},
		},
		{
			ID:                 "steak_sweet_potato",
			Name:               "Steak and Sweet Potato",
			CookingTimeMinutes: 30,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "sirloin_steak"},
				{NormalizedName: "sweet_potato"},
				{NormalizedName: "green_beans"},
			},
			Nutrition: domain.Nutrition{
				Calories: 650, ProteinG: 46, FatG: 28, CarbsG: 58, FiberG: 7,
				Micronutrients: map[string]float64{
					"vitamin_a_mcg": 900, "iron_mg": 4.6, domain.SodiumNutrientName: 310,
				},
			},
			PrimaryCarbContribution: &domain.CarbContribution{
				IngredientName:    "sweet_potato",
				OriginalQuantityG: 200,
				Nutrition:         domain.Nutrition{Calories: 180, CarbsG: 41, FiberG: 6},
			},
		},
		{
			ID:                 "mediterranean_salad",
			Name:               "Mediterranean Chickpea Salad",
			CookingTimeMinutes: 10,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "chickpeas"},
				{NormalizedName: "feta"},
				{NormalizedName: "cucumber"},
			},
			Nutrition: domain.Nutrition{
				Calories: 430, ProteinG: 18, FatG: 20, CarbsG: 46, FiberG: 11,
				Micronutrients: map[string]float64{
					"calcium_mg": 210, "folate_mcg": 190, domain.SodiumNutrientName: 560,
				},
			},
		},
		{
			ID:                 "shrimp_fried_rice",
			Name:               "Shrimp Fried Rice",
			CookingTimeMinutes: 18,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "shrimp"},
				{NormalizedName: "brown_rice"},
				{NormalizedName: "egg"},
			},
			Nutrition: domain.Nutrition{
				Calories: 540, ProteinG: 32, FatG: 16, CarbsG: 66, FiberG: 3,
				Micronutrients: map[string]float64{"zinc_mg": 2.2, domain.SodiumNutrientName: 710},
			},
			PrimaryCarbContribution: &domain.CarbContribution{
				IngredientName:    "brown_rice",
				OriginalQuantityG: 150,
				Nutrition:         domain.Nutrition{Calories: 170, CarbsG: 36, ProteinG: 4, FiberG: 2},
			},
		},
		{
			ID:                 "cottage_cheese_fruit_bowl",
			Name:               "Cottage Cheese Fruit Bowl",
			CookingTimeMinutes: 3,
			Ingredients: []domain.Ingredient{
				{NormalizedName: "cottage_cheese"},
				{NormalizedName: "pineapple"},
				{NormalizedName: "walnuts"},
			},
			Nutrition: domain.Nutrition{
				Calories: 340, ProteinG: 26, FatG: 14, CarbsG: 28, FiberG: 3,
				Micronutrients: map[string]float64{"calcium_mg": 140, domain.SodiumNutrientName: 430},
			},
		},
	}
}
