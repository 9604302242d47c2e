package services

import (
	"context"
	"path/filepath"
	"testing"

	"projectarchitect/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relPaths(files []models.FileHandle) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelativePath)
	}
	return out
}

func TestSelect_FiltersExtensionsAndExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":                 "# demo",
		"src/index.ts":              "export {}",
		"src/util.py":               "pass",
		"src/logo.png":              "png",
		"node_modules/lib/index.js": "module.exports = {}",
		"dist/bundle.js":            "bundle",
		"pkg/build/gen.go":          "package gen",
		"app/__pycache__/x.py":      "cached",
		".next/server.js":           "next",
	})

	s := NewFileSelector(FileSelectorOptions{}, zerolog.Nop())
	files, err := s.Select(context.Background(), models.Workspace{Roots: []string{root}})
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "src/index.ts", "src/util.py"}, relPaths(files))
	assert.Equal(t, filepath.Join(root, "src", "index.ts"), files[1].Path)
}

func TestSelect_AppliesIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".gitignore":         "# generated\ngenerated/\n*.log.md\n",
		IgnoreFileName:       "fixtures/\n",
		"main.go":            "package main",
		"generated/api.go":   "package generated",
		"notes.log.md":       "log",
		"fixtures/data.json": "{}",
	})

	s := NewFileSelector(FileSelectorOptions{}, zerolog.Nop())
	files, err := s.Select(context.Background(), models.Workspace{Roots: []string{root}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, relPaths(files))

	s = NewFileSelector(FileSelectorOptions{IgnoreVCSRules: true}, zerolog.Nop())
	files, err = s.Select(context.Background(), models.Workspace{Roots: []string{root}})
	require.NoError(t, err)
	assert.Equal(t, []string{"fixtures/data.json", "generated/api.go", "main.go", "notes.log.md"}, relPaths(files))
}

func TestSelect_ExtraPatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"docs/guide.txt":          "guide",
		"docs/deep/more.txt":      "more",
		"node_modules/x/skip.txt": "skip",
		"main.go":                 "package main",
	})

	s := NewFileSelector(FileSelectorOptions{ExtraPatterns: []string{"**/*.txt"}}, zerolog.Nop())
	files, err := s.Select(context.Background(), models.Workspace{Roots: []string{root}})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/deep/more.txt", "docs/guide.txt", "main.go"}, relPaths(files))
}

func TestSelect_MultiRootPrefixesRootName(t *testing.T) {
	parent := t.TempDir()
	api := filepath.Join(parent, "api")
	web := filepath.Join(parent, "web")
	writeFiles(t, api, map[string]string{"go.mod": "module api"})
	writeFiles(t, web, map[string]string{"package.json": "{}"})

	s := NewFileSelector(FileSelectorOptions{}, zerolog.Nop())
	files, err := s.Select(context.Background(), models.Workspace{Roots: []string{api, web}})
	require.NoError(t, err)
	assert.Equal(t, []string{"api/go.mod", "web/package.json"}, relPaths(files))
	assert.Equal(t, models.BucketConfiguration, files[0].Bucket)
}

func TestSelect_MultiRootClassifiesWithinRoot(t *testing.T) {
	parent := t.TempDir()
	docker := filepath.Join(parent, "docker-app")
	prisma := filepath.Join(parent, "prisma-svc")
	writeFiles(t, docker, map[string]string{"src/util/strings.ts": "export {}"})
	writeFiles(t, prisma, map[string]string{"lib/format.go": "package lib", "src/services/user.ts": "export {}"})

	s := NewFileSelector(FileSelectorOptions{}, zerolog.Nop())
	files, err := s.Select(context.Background(), models.Workspace{Roots: []string{docker, prisma}})
	require.NoError(t, err)

	buckets := map[string]models.FileBucket{}
	for _, f := range files {
		buckets[f.RelativePath] = f.Bucket
	}
	assert.Equal(t, map[string]models.FileBucket{
		"docker-app/src/util/strings.ts":  models.BucketTree,
		"prisma-svc/lib/format.go":        models.BucketTree,
		"prisma-svc/src/services/user.ts": models.BucketCodeSample,
	}, buckets)
}

func TestSelect_NoWorkspace(t *testing.T) {
	s := NewFileSelector(FileSelectorOptions{}, zerolog.Nop())
	_, err := s.Select(context.Background(), models.Workspace{})
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestSelect_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"main.go": "package main"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewFileSelector(FileSelectorOptions{}, zerolog.Nop())
	_, err := s.Select(ctx, models.Workspace{Roots: []string{root}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		rel  string
		want models.FileBucket
	}{
		{"package.json", models.BucketConfiguration},
		{"web/tsconfig.app.json", models.BucketConfiguration},
		{"Dockerfile.md", models.BucketConfiguration},
		{"README.md", models.BucketConfiguration},
		{"prisma/schema.prisma", models.BucketConfiguration},
		{"api/go.mod", models.BucketConfiguration},
		{"pom.xml", models.BucketConfiguration},
		{"app/build.gradle", models.BucketConfiguration},
		{"src/controllers/user.ts", models.BucketCodeSample},
		{"src/routes.ts", models.BucketCodeSample},
		{"api/users.go", models.BucketCodeSample},
		{"src/services/user.service.ts", models.BucketCodeSample},
		{"internal/usecase/create.go", models.BucketCodeSample},
		{"pkg/handler.go", models.BucketCodeSample},
		{"src/models/user.py", models.BucketCodeSample},
		{"src/entity/order.java", models.BucketCodeSample},
		{"db/schema.sql", models.BucketCodeSample},
		{"src/repository/user.ts", models.BucketCodeSample},
		{"src/dao/user.java", models.BucketCodeSample},
		{"index.ts", models.BucketCodeSample},
		{"web/server.js", models.BucketCodeSample},
		{"cmd/main.go", models.BucketTree},
		{"src/index.tsx", models.BucketTree},
		{"docs/guide.md", models.BucketTree},
		{"src/utils/strings.ts", models.BucketTree},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.rel), tc.rel)
	}
}

func TestClassify_ConfigurationWinsOverCodeSample(t *testing.T) {
	assert.Equal(t, models.BucketConfiguration, Classify("src/services/package.json"))
	assert.Equal(t, models.BucketConfiguration, Classify("prisma/models/readme.md"))
}

func TestPartition_PreservesOrder(t *testing.T) {
	files := []models.FileHandle{
		{RelativePath: "src/services/b.ts"},
		{RelativePath: "README.md"},
		{RelativePath: "docs/notes.md"},
		{RelativePath: "src/api/a.ts", Bucket: models.BucketCodeSample},
		{RelativePath: "go.mod"},
	}
	configuration, code := Partition(files)
	assert.Equal(t, []string{"README.md", "go.mod"}, relPaths(configuration))
	assert.Equal(t, []string{"src/services/b.ts", "src/api/a.ts"}, relPaths(code))
}
