package models

// FileBucket classifies a discovered file. Every file belongs to the tree;
// at most one of Configuration or CodeSample is assigned in addition.
type FileBucket string

const (
	BucketTree          FileBucket = "tree"
	BucketConfiguration FileBucket = "configuration"
	BucketCodeSample    FileBucket = "code-sample"
)

// Workspace is the set of roots a flow operates on.
type Workspace struct {
	Roots []string
}

// FileHandle identifies one workspace file.
type FileHandle struct {
	Path         string     `json:"path"`
	RelativePath string     `json:"relativePath"`
	Bucket       FileBucket `json:"bucket"`
}

// ProjectStructureDocument is the bounded text summary of a workspace.
type ProjectStructureDocument struct {
	Tree          string
	Configuration string
	CodeSamples   string
	ConfigFiles   []string
	CodeFiles     []string
	Skipped       []string
	TotalFiles    int
}

// String renders the three sections in their fixed order.
func (d ProjectStructureDocument) String() string {
	return d.Tree + d.Configuration + d.CodeSamples
}
