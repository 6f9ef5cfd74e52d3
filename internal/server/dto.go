package server

import "github.com/hammamikhairi/souschef/internal/domain"

type ingestRequest struct {
	URL   string `json:"url"`
	Model string `json:"model,omitempty"`
}

type ingestResponse struct {
	RecipeID int64         `json:"recipe_id"`
	VideoID  string        `json:"video_id"`
	Recipe   domain.Recipe `json:"recipe"`
}

type extractRequest struct {
	Transcript string `json:"transcript"`
	Model      string `json:"model,omitempty"`
}

type extractResponse struct {
	Recipe domain.Recipe `json:"recipe"`
}

type startSessionRequest struct {
	Recipe   *domain.Recipe `json:"recipe,omitempty"`
	RecipeID *int64         `json:"recipe_id,omitempty"`
}

type queryRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type stepRequest struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
}

type timerRequest struct {
	SessionID string `json:"session_id"`
	Label     string `json:"label"`
	Duration  string `json:"duration"`
}

type sessionListResponse struct {
	Sessions []string `json:"sessions"`
	Count    int      `json:"count"`
}

type createRecipeRequest struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Recipe      domain.Recipe `json:"recipe"`
}

type createRecipeResponse struct {
	RecipeID int64 `json:"recipe_id"`
}

type recipeListResponse struct {
	Recipes []domain.SavedRecipe `json:"recipes"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}
