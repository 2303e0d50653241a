package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Recipe is one search result as served by the backend
type Recipe struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	ImageURL        string   `json:"image"`
	IngredientLines Text     `json:"ingredientLines"`
	Ingredients     []string `json:"ingredients"`
	HealthLabels    []string `json:"healthLabels"`
	CuisineType     Text     `json:"cuisineType"`
	MealType        Text     `json:"mealType"`
	Calories        float64  `json:"calories"`
	URL             string   `json:"url"`
}

// Text is a display string that also accepts a JSON array of strings,
// which is joined with "," the same way the web page rendered it.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("text list: %w", err)
		}
		*t = Text(strings.Join(parts, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("text: %w", err)
	}
	*t = Text(s)
	return nil
}

func (t Text) String() string {
	return string(t)
}

// SavedRecipe is an entry of the saved-recipes listing; only the ID is used
type SavedRecipe struct {
	ID string `json:"id"`
}
