package services

import (
	"embed"
	"fmt"
	"strings"

	"projectarchitect/internal/models"
)

const (
	AnalysisSystemRole = "You are a senior software architect with expertise in code analysis and documentation."
	CommitSystemRole   = "You are a helpful assistant that writes semantic git commit messages."
)

// promptFS holds the built-in templates. A mode like "summary-pt" maps to
// "prompts/summary-pt.txt"; commit templates are "prompts/commit-<locale>.txt".
//
//go:embed prompts/*.txt
var promptFS embed.FS

// PromptService composes the final LLM input from fixed templates.
type PromptService struct{}

func NewPromptService() *PromptService {
	return &PromptService{}
}

// Compose appends the structure document to the template for mode.
func (p *PromptService) Compose(mode models.AnalysisMode, doc models.ProjectStructureDocument) (models.Prompt, error) {
	if _, err := models.ParseAnalysisMode(string(mode)); err != nil {
		return models.Prompt{}, err
	}
	tmpl, err := loadTemplate(string(mode))
	if err != nil {
		return models.Prompt{}, err
	}
	return models.Prompt{
		SystemRole: AnalysisSystemRole,
		Body:       tmpl + "\n\n" + doc.String(),
	}, nil
}

// ComposeCommit appends diff to the commit template for locale. Unknown
// locales fall back to the default.
func (p *PromptService) ComposeCommit(locale string, diff models.DiffPayload) (models.Prompt, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale != "en" {
		locale = models.DefaultLocale
	}
	tmpl, err := loadTemplate("commit-" + locale)
	if err != nil {
		return models.Prompt{}, err
	}
	return models.Prompt{
		SystemRole: CommitSystemRole,
		Body:       tmpl + "\n" + diff.Text,
	}, nil
}

func loadTemplate(key string) (string, error) {
	b, err := promptFS.ReadFile(fmt.Sprintf("prompts/%s.txt", key))
	if err != nil {
		return "", fmt.Errorf("prompt template %q not found: %w", key, err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}
