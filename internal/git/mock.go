package git

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/mock"

	"github.com/mrz1836/go-leanclone/internal/testutil"
)

// MockClient is a mock implementation of the Client interface
type MockClient struct {
	mock.Mock
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)

// Clone mock implementation
func (m *MockClient) Clone(ctx context.Context, uri, branch, dest string) error {
	return testutil.ErrorResult(m.Called(ctx, uri, branch, dest))
}

// Fetch mock implementation
func (m *MockClient) Fetch(ctx context.Context, repoPath, remote, ref string) error {
	return testutil.ErrorResult(m.Called(ctx, repoPath, remote, ref))
}

// DiffIndex mock implementation
func (m *MockClient) DiffIndex(ctx context.Context, repoPath, ref string) ([]string, error) {
	return testutil.ValueResult[[]string](m.Called(ctx, repoPath, ref))
}

// Restore mock implementation
func (m *MockClient) Restore(ctx context.Context, repoPath, ref string, paths []string) error {
	return testutil.ErrorResult(m.Called(ctx, repoPath, ref, paths))
}

// Init mock implementation
func (m *MockClient) Init(ctx context.Context, repoPath string) error {
	return testutil.ErrorResult(m.Called(ctx, repoPath))
}

// AddAll mock implementation
func (m *MockClient) AddAll(ctx context.Context, repoPath string) error {
	return testutil.ErrorResult(m.Called(ctx, repoPath))
}

// Commit mock implementation
func (m *MockClient) Commit(ctx context.Context, repoPath, message string) error {
	return testutil.ErrorResult(m.Called(ctx, repoPath, message))
}

// LsFiles mock implementation
func (m *MockClient) LsFiles(ctx context.Context, dir string) ([]string, error) {
	return testutil.ValueResult[[]string](m.Called(ctx, dir))
}

// LsFilesIgnored mock implementation
func (m *MockClient) LsFilesIgnored(ctx context.Context, dir string) ([]string, error) {
	return testutil.ValueResult[[]string](m.Called(ctx, dir))
}

// LsOthers mock implementation
func (m *MockClient) LsOthers(ctx context.Context, dir string) ([]string, error) {
	return testutil.ValueResult[[]string](m.Called(ctx, dir))
}

// RevParseTopLevel mock implementation
func (m *MockClient) RevParseTopLevel(ctx context.Context, dir string) (string, error) {
	return testutil.ValueResult[string](m.Called(ctx, dir))
}

// CheckIgnore mock implementation
func (m *MockClient) CheckIgnore(ctx context.Context, dir, file string) (string, error) {
	return testutil.ValueResult[string](m.Called(ctx, dir, file))
}

// Version mock implementation
func (m *MockClient) Version(ctx context.Context) (*semver.Version, error) {
	return testutil.ValueResult[*semver.Version](m.Called(ctx))
}
