package models

// DiffSource records which tier produced a diff.
type DiffSource string

const (
	DiffStaged  DiffSource = "staged"
	DiffWorking DiffSource = "working"
)

// DiffPayload is the raw diff sent to the commit composer.
type DiffPayload struct {
	Text      string
	Source    DiffSource
	Truncated bool
}

// CommitTypes are the Conventional Commits types the prompt advertises.
var CommitTypes = []string{"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore", "revert"}

// CommitMessage is the post-processed model reply.
type CommitMessage struct {
	Raw         string
	Type        string
	Scope       string
	Breaking    bool
	Description string
	Body        string
	Footer      string
	// Conventional is false when the header does not follow
	// <type>(<scope>?): <description>.
	Conventional bool
}

func (c CommitMessage) String() string {
	return c.Raw
}

// CommitResult is the outcome of one commit flow. Message is nil when there
// were no changes to describe.
type CommitResult struct {
	RunID       string
	Message     *CommitMessage
	Diff        DiffPayload
	Dir         string
	Provider    string
	Model       string
	PromptChars int
}
