package errors //nolint:revive,nolintlint // internal test package, name conflict intentional

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTestPermission = errors.New("permission denied")

func TestFileOperationError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		wantNil bool
	}{
		{
			name: "create",
			err:  FileCreateError("/clone/a.c", errTestPermission),
			want: "file operation failed: create '/clone/a.c': permission denied",
		},
		{
			name: "read",
			err:  FileReadError("/clone/.gitmodules", errTestPermission),
			want: "file operation failed: read '/clone/.gitmodules': permission denied",
		},
		{
			name: "write",
			err:  FileWriteError("/clone.version", errTestPermission),
			want: "file operation failed: write '/clone.version': permission denied",
		},
		{
			name: "delete",
			err:  FileDeleteError("/clone/x.log", errTestPermission),
			want: "file operation failed: delete '/clone/x.log': permission denied",
		},
		{
			name:    "nil error",
			err:     FileOperationError("read", "/x", nil),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantNil {
				assert.NoError(t, tt.err)
				return
			}
			require.ErrorIs(t, tt.err, errTestPermission)
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestDirectoryOperationError(t *testing.T) {
	assert.NoError(t, DirectoryOperationError("create", "/x", nil))

	err := DirectoryRemoveError("/clone/.git", errTestPermission)
	require.ErrorIs(t, err, errTestPermission)
	assert.Equal(t, "directory operation failed: remove '/clone/.git': permission denied", err.Error())

	assert.Contains(t, DirectoryCreateError("/d", errTestPermission).Error(), "create '/d'")
	assert.Contains(t, DirectoryWalkError("/d", errTestPermission).Error(), "walk '/d'")
}
