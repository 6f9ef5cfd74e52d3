package domain

import "context"

// SessionStore persists session snapshots. A Save must durably capture
// the session and its full timer set as one unit; Load must reconstruct
// an equivalent session.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context) ([]string, error)
}

// RecipeCatalog is an append-only collection of saved recipes with
// autogenerated numeric ids. It is independent of active sessions.
type RecipeCatalog interface {
	SaveRecipe(ctx context.Context, title, description string, recipe Recipe) (int64, error)
	GetRecipe(ctx context.Context, id int64) (*SavedRecipe, error)
	ListRecipes(ctx context.Context) ([]SavedRecipe, error)
}

// Transcript is the raw text of a cooking video plus its metadata.
type Transcript struct {
	ID    string `json:"video_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// TranscriptSource fetches transcripts from a video source.
// Implementations are thin adapters over an external service.
type TranscriptSource interface {
	Fetch(ctx context.Context, ref string) (*Transcript, error)
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single role-tagged message for the language backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tune a single completion request. A zero Model means the
// client's default; zero Temperature/MaxTokens mean the client defaults.
type ChatOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatClient talks to a language-model backend. Chat may block for
// seconds to low minutes; implementations apply their own timeout and
// report unreachability or timeouts as ErrUpstream.
type ChatClient interface {
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}
