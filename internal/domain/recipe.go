package domain

// Nutrition is the precomputed nutritional profile of a recipe, a scaled
// variant, or a running tracker total. Micronutrients maps a normalized
// nutrient name to its quantity in the nutrient's natural unit (mg, mcg, ...).
type Nutrition struct {
	Calories       float64
	ProteinG       float64
	FatG           float64
	CarbsG         float64
	FiberG         float64
	Micronutrients map[string]float64
}

// Add returns the element-wise sum of n and other.
func (n Nutrition) Add(other Nutrition) Nutrition {
	return n.scale(1, other, 1)
}

// Sub returns the element-wise difference n - other.
func (n Nutrition) Sub(other Nutrition) Nutrition {
	return n.scale(1, other, -1)
}

// Scale returns n with every field multiplied by factor.
func (n Nutrition) Scale(factor float64) Nutrition {
	return n.scale(factor, Nutrition{}, 0)
}

func (n Nutrition) scale(an float64, other Nutrition, ao float64) Nutrition {
	out := Nutrition{
		Calories:       an*n.Calories + ao*other.Calories,
		ProteinG:       an*n.ProteinG + ao*other.ProteinG,
		FatG:           an*n.FatG + ao*other.FatG,
		CarbsG:         an*n.CarbsG + ao*other.CarbsG,
		FiberG:         an*n.FiberG + ao*other.FiberG,
		Micronutrients: make(map[string]float64, len(n.Micronutrients)+len(other.Micronutrients)),
	}
	for k, v := range n.Micronutrients {
		out.Micronutrients[k] = an * v
	}
	for k, v := range other.Micronutrients {
		out.Micronutrients[k] += ao * v
	}
	return out
}

// Get returns the quantity of a tracked nutrient by name, supporting both
// the four macro keys and arbitrary micronutrient names.
func (n Nutrition) Get(nutrient string) float64 {
	switch nutrient {
	case NutrientCalories:
		return n.Calories
	case NutrientProtein:
		return n.ProteinG
	case NutrientFat:
		return n.FatG
	case NutrientCarbs:
		return n.CarbsG
	case NutrientFiber:
		return n.FiberG
	default:
		return n.Micronutrients[nutrient]
	}
}

// Nutrient key names for the macro channels, so callers can address macros
// and micronutrients through the same string-keyed maps (resolved ULs,
// RDIs, carryover, weekly totals).
const (
	NutrientCalories = "calories"
	NutrientProtein  = "protein_g"
	NutrientFat      = "fat_g"
	NutrientCarbs    = "carbs_g"
	NutrientFiber    = "fiber_g"
)

// Ingredient is a single line item of a recipe. "To taste" items carry zero
// nutritional weight and are ignored by nutrition computation (which is
// presumed precomputed on Recipe.Nutrition already) but still participate in
// HC-1 exclusion matching.
type Ingredient struct {
	NormalizedName string
	ToTaste        bool
}

// CarbContribution names the single ingredient responsible for a recipe's
// primary carb-downscaling variant step (§4.5). Nutrition is the nutrient
// delta contributed by that ingredient at OriginalQuantityG; scaling the
// ingredient down to quantity q recomputes the recipe total as
// recipe.Nutrition - Nutrition + Nutrition*(q/OriginalQuantityG).
type CarbContribution struct {
	IngredientName    string
	OriginalQuantityG float64
	Nutrition         Nutrition
}

// Recipe is an immutable pool entry with precomputed nutrition.
type Recipe struct {
	ID                 string
	Name               string
	Ingredients        []Ingredient
	CookingTimeMinutes int
	Nutrition          Nutrition
	// PrimaryCarbContribution is optional; nil disables the carb-downscaling
	// variant step for this recipe.
	PrimaryCarbContribution *CarbContribution
}

// HasExcludedIngredient reports whether the recipe contains any ingredient
// whose normalized name is in excluded.
func (r Recipe) HasExcludedIngredient(excluded map[string]bool) bool {
	for _, ing := range r.Ingredients {
		if excluded[ing.NormalizedName] {
			return true
		}
	}
	return false
}

// LikedFoodMatches counts how many of the recipe's ingredients are in liked.
func (r Recipe) LikedFoodMatches(liked map[string]bool) int {
	count := 0
	for _, ing := range r.Ingredients {
		if liked[ing.NormalizedName] {
			count++
		}
	}
	return count
}

// RecipePool is the finite, immutable set of recipes a search draws from.
type RecipePool struct {
	Recipes []Recipe
	byID    map[string]*Recipe
}

// NewRecipePool indexes recipes by id for O(1) lookup. Duplicate ids are a
// caller programming error and are rejected.
func NewRecipePool(recipes []Recipe) (RecipePool, error) {
	byID := make(map[string]*Recipe, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		if _, exists := byID[r.ID]; exists {
			return RecipePool{}, ErrDuplicateRecipeID
		}
		byID[r.ID] = r
	}
	return RecipePool{Recipes: recipes, byID: byID}, nil
}

// ByID looks up a recipe by id, returning false if absent.
func (p RecipePool) ByID(id string) (Recipe, bool) {
	r, ok := p.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return *r, true
}

// Candidate is a tagged variant over {Recipe, scaled carb-downscaling
// variant}, exposing the shared accessor surface constraints, feasibility,
// and scoring need. VariantIndex is nil for a base recipe and the 1-based
// variant number (i in §4.5) otherwise; RecipeID is always the parent
// recipe's id, which is what HC-2/HC-8 uniqueness and repetition checks key
// on regardless of variant.
type Candidate struct {
	RecipeID           string
	Name               string
	CookingTimeMinutes int
	Nutrition          Nutrition
	VariantIndex       *int
}

// CandidateFromRecipe wraps a base recipe as a (non-variant) candidate.
func CandidateFromRecipe(r Recipe) Candidate {
	return Candidate{
		RecipeID:           r.ID,
		Name:               r.Name,
		CookingTimeMinutes: r.CookingTimeMinutes,
		Nutrition:          r.Nutrition,
	}
}

// IsVariant reports whether this candidate is a scaled carb-downscaling
// variant rather than the base recipe.
func (c Candidate) IsVariant() bool {
	return c.VariantIndex != nil
}
