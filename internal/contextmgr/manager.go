// Package contextmgr assembles the context window handed to code
// generation: the caller's partial context enriched from the index, plus
// cached per-project and per-user state.
package contextmgr

import (
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/internal/cache"
	"github.com/yourusername/copilot-core/internal/indexer"
	"github.com/yourusername/copilot-core/storage"
	"github.com/yourusername/copilot-core/models"
)

const (
	maxRecentPrompts     = 10
	maxPreferredPatterns = 5
	maxCommonMistakes    = 5

	// defaultUserID stands in when a caller supplies no user id.
	defaultUserID = "default-user"
)

// extensionLanguages maps file extensions to language names for primary
// language detection.
var extensionLanguages = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".java": "java",
	".go":   "go",
	".rb":   "ruby",
	".rs":   "rust",
}

// frameworkDependencies maps dependency names to framework labels; first
// hit in table order wins.
var frameworkDependencies = []struct {
	dependency string
	framework  string
}{
	{"react", "react"},
	{"next", "nextjs"},
	{"nextjs", "nextjs"},
	{"vue", "vue"},
	{"angular", "angular"},
	{"express", "express"},
	{"fastapi", "fastapi"},
	{"django", "django"},
	{"flask", "flask"},
}

// Manager builds and enriches code contexts, caching project and user state
// behind namespaced keys.
type Manager struct {
	cache   *cache.ContextCache
	indexer *indexer.CodeIndexer
	store   storage.HistoryStore
	logger  *zap.Logger
}

// NewManager creates a context manager. A nil store falls back to an
// in-memory one.
func NewManager(contextCache *cache.ContextCache, codeIndexer *indexer.CodeIndexer, store storage.HistoryStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}
	return &Manager{
		cache:   contextCache,
		indexer: codeIndexer,
		store:   store,
		logger:  logger,
	}
}

// GetIndexer exposes the underlying code indexer so callers can feed it.
func (m *Manager) GetIndexer() *indexer.CodeIndexer {
	return m.indexer
}

// BuildContext assembles the full context window for a generation request:
// the request's context enriched, plus the user's history.
func (m *Manager) BuildContext(request *models.CodeGenerationRequest) (*models.ContextWindow, error) {
	var partial *models.CodeContext
	if request != nil {
		partial = request.Context
	}

	enriched := m.Enrich(partial)

	userID := enriched.UserID
	if userID == "" {
		userID = defaultUserID
	}
	history, err := m.GetUserHistory(userID)
	if err != nil {
		return nil, err
	}

	return &models.ContextWindow{
		Context: enriched,
		History: history,
	}, nil
}

// Enrich fills the gaps of a possibly-partial context. A nil context yields
// an empty context rather than an error. SurroundingCode and RelatedFiles
// come from the indexer when CurrentFile is set; ProjectStructure is filled
// only when absent and a CurrentFile exists; UserPreferences only when
// absent.
func (m *Manager) Enrich(partial *models.CodeContext) models.CodeContext {
	var ctx models.CodeContext
	if partial != nil {
		ctx = *partial
	}

	if ctx.CurrentFile != "" {
		if ctx.SurroundingCode == "" {
			ctx.SurroundingCode = m.surroundingCode(ctx.CurrentFile)
		}
		if len(ctx.RelatedFiles) == 0 {
			ctx.RelatedFiles = m.indexer.FindRelated(ctx.CurrentFile)
		}
		if ctx.ProjectStructure == nil {
			project, err := m.GetProjectContext(filepath.Dir(ctx.CurrentFile))
			if err == nil {
				ctx.ProjectStructure = &project.Structure
			} else {
				m.logger.Warn("project context unavailable",
					zap.String("file", ctx.CurrentFile), zap.Error(err))
			}
		}
	}

	if ctx.UserPreferences == nil {
		userID := ctx.UserID
		if userID == "" {
			userID = defaultUserID
		}
		prefs, err := m.GetUserPreferences(userID)
		if err == nil {
			ctx.UserPreferences = prefs
		} else {
			m.logger.Warn("user preferences unavailable",
				zap.String("user", userID), zap.Error(err))
		}
	}

	return ctx
}

// surroundingCode reads indexed file content through the cache.
func (m *Manager) surroundingCode(path string) string {
	key := "file:" + path
	if cached, ok := m.cache.Get(key); ok {
		if content, ok := cached.(string); ok {
			return content
		}
	}
	content, ok := m.indexer.Content(path)
	if !ok {
		return ""
	}
	m.cache.Set(key, content)
	return content
}

// GetProjectContext returns the cached project context for a root path,
// computing it from the index on a miss.
func (m *Manager) GetProjectContext(root string) (*models.ProjectContext, error) {
	key := "project:" + root
	if cached, ok := m.cache.Get(key); ok {
		if project, ok := cached.(*models.ProjectContext); ok {
			return project, nil
		}
	}

	project := m.detectProject(root)
	m.cache.Set(key, project)
	return project, nil
}

// GetUserHistory returns the user's history, creating an empty one on first
// access. The cache is the read path; the backing store makes lazy creation
// durable.
func (m *Manager) GetUserHistory(userID string) (*models.UserHistory, error) {
	key := "user:" + userID
	if cached, ok := m.cache.Get(key); ok {
		if history, ok := cached.(*models.UserHistory); ok {
			return history, nil
		}
	}

	history, err := m.store.LoadHistory(userID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = &models.UserHistory{UserID: userID, UpdatedAt: time.Now()}
		if err := m.store.SaveHistory(history); err != nil {
			return nil, err
		}
	}
	m.cache.Set(key, history)
	return history, nil
}

// GetUserPreferences returns the user's preferences, defaulting them on
// first access.
func (m *Manager) GetUserPreferences(userID string) (*models.UserPreferences, error) {
	key := "preferences:" + userID
	if cached, ok := m.cache.Get(key); ok {
		if prefs, ok := cached.(*models.UserPreferences); ok {
			return prefs, nil
		}
	}

	prefs, err := m.store.LoadPreferences(userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = &models.UserPreferences{
			UserID:            userID,
			PreferredLanguage: "javascript",
			CodeStyle:         models.StyleFunctional,
			CommentStyle:      models.CommentsMinimal,
		}
		if err := m.store.SavePreferences(prefs); err != nil {
			return nil, err
		}
	}
	m.cache.Set(key, prefs)
	return prefs, nil
}

// AddUserPrompt records a prompt at the front of the user's recent list,
// capped at ten entries.
func (m *Manager) AddUserPrompt(userID, prompt string) error {
	return m.mutateHistory(userID, func(h *models.UserHistory) {
		h.RecentPrompts = pushFront(h.RecentPrompts, prompt, maxRecentPrompts, false)
	})
}

// AddPreferredPattern records a pattern the user favors, de-duplicated and
// capped at five.
func (m *Manager) AddPreferredPattern(userID, pattern string) error {
	return m.mutateHistory(userID, func(h *models.UserHistory) {
		h.PreferredPatterns = pushFront(h.PreferredPatterns, pattern, maxPreferredPatterns, true)
	})
}

// AddCommonMistake records a recurring user mistake, de-duplicated and
// capped at five.
func (m *Manager) AddCommonMistake(userID, mistake string) error {
	return m.mutateHistory(userID, func(h *models.UserHistory) {
		h.CommonMistakes = pushFront(h.CommonMistakes, mistake, maxCommonMistakes, true)
	})
}

func (m *Manager) mutateHistory(userID string, mutate func(*models.UserHistory)) error {
	history, err := m.GetUserHistory(userID)
	if err != nil {
		return err
	}
	mutate(history)
	history.UpdatedAt = time.Now()

	if err := m.store.SaveHistory(history); err != nil {
		return err
	}
	m.cache.Set("user:"+userID, history)
	return nil
}

// pushFront inserts value at index 0, optionally removing an existing equal
// entry first, and truncates to max.
func pushFront(items []string, value string, max int, dedupe bool) []string {
	if dedupe {
		for i, item := range items {
			if item == value {
				items = append(items[:i], items[i+1:]...)
				break
			}
		}
	}
	items = append([]string{value}, items...)
	if len(items) > max {
		items = items[:max]
	}
	return items
}

// detectProject derives a project context from the indexed files under
// root.
func (m *Manager) detectProject(root string) *models.ProjectContext {
	var files []models.ProjectFile
	extensionCounts := make(map[string]int)

	for _, path := range m.indexer.Files() {
		if root != "" && root != "." && !strings.HasPrefix(path, root) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(path))
		language := extensionLanguages[ext]
		if language != "" {
			extensionCounts[ext]++
		}
		size := int64(0)
		if content, ok := m.indexer.Content(path); ok {
			size = int64(len(content))
		}
		files = append(files, models.ProjectFile{Path: path, Language: language, Size: size})
	}

	dependencies := m.projectDependencies(root)

	project := &models.ProjectContext{
		Language:     primaryLanguage(extensionCounts),
		Framework:    detectFramework(dependencies),
		Dependencies: dependencyNames(dependencies),
		Structure: models.ProjectStructure{
			Root:         root,
			Files:        files,
			Dependencies: dependencies,
		},
	}
	m.logger.Debug("project context detected",
		zap.String("root", root),
		zap.String("language", project.Language),
		zap.String("framework", project.Framework),
		zap.Int("files", len(files)))
	return project
}

// projectDependencies parses a package.json indexed under root, if any.
// Parsing is line-oriented and tolerant: anything inside a dependencies
// block shaped like "name": "version" counts.
func (m *Manager) projectDependencies(root string) []models.ProjectDependency {
	var manifest string
	for _, path := range m.indexer.Files() {
		if filepath.Base(path) != "package.json" {
			continue
		}
		if root != "" && root != "." && !strings.HasPrefix(path, root) {
			continue
		}
		if content, ok := m.indexer.Content(path); ok {
			manifest = content
		}
		break
	}
	if manifest == "" {
		return nil
	}

	var deps []models.ProjectDependency
	inBlock := false
	for _, line := range strings.Split(manifest, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, `"dependencies"`) || strings.HasPrefix(trimmed, `"devDependencies"`):
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, "}"):
			inBlock = false
		case inBlock:
			parts := strings.SplitN(trimmed, ":", 2)
			if len(parts) != 2 {
				continue
			}
			name := strings.Trim(strings.TrimSpace(parts[0]), `"`)
			version := strings.Trim(strings.TrimSuffix(strings.TrimSpace(parts[1]), ","), `"`)
			if name != "" {
				deps = append(deps, models.ProjectDependency{Name: name, Version: version})
			}
		}
	}
	return deps
}

func primaryLanguage(extensionCounts map[string]int) string {
	best := ""
	bestCount := 0
	for ext, count := range extensionCounts {
		language := extensionLanguages[ext]
		if count > bestCount || (count == bestCount && language < extensionLanguages[best]) {
			best = ext
			bestCount = count
		}
	}
	return extensionLanguages[best]
}

func detectFramework(deps []models.ProjectDependency) string {
	for _, entry := range frameworkDependencies {
		for _, dep := range deps {
			if dep.Name == entry.dependency {
				return entry.framework
			}
		}
	}
	return ""
}

func dependencyNames(deps []models.ProjectDependency) []string {
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.Name)
	}
	return names
}
