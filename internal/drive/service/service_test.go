package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/blob"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/drive/store"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/models"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/vault"
	"github.com/GaygysyzMyradov/EncryptedDrive/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *blob.MemoryStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "drive.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Folder{}, &models.File{}))

	blobs := blob.NewMemoryStore()
	svc := NewService(store.NewStore(db), vault.New(blobs), logger.New("drive-test"))
	return svc, blobs
}

func TestCreateFolder_BasicSlug(t *testing.T) {
	svc, _ := newTestService(t)

	folder, err := svc.CreateFolder(context.Background(), 1, "Taxes")
	require.NoError(t, err)
	assert.Equal(t, "Taxes", folder.Name)
	assert.Equal(t, "taxes", folder.Slug)
	assert.Equal(t, uint(1), folder.OwnerID)
}

func TestCreateFolder_RepeatedNamesGetDistinctSlugs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 5
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		folder, err := svc.CreateFolder(ctx, 1, "Projects")
		require.NoError(t, err)
		require.False(t, seen[folder.Slug], "duplicate slug %q", folder.Slug)
		seen[folder.Slug] = true
	}
}

func TestCreateFolder_RejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateFolder(context.Background(), 1, "   ")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUploadDownloadDelete_EndToEnd(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, 7, "Taxes")
	require.NoError(t, err)
	require.Equal(t, "taxes", folder.Slug)

	payload := []byte("%PDF-1.4 tax return contents")
	file, err := svc.UploadFile(ctx, 7, "taxes", "2023.pdf", payload)
	require.NoError(t, err)
	assert.Equal(t, "2023-pdf", file.Slug)
	assert.NotEmpty(t, file.StorageLocator)
	require.NotNil(t, file.DecryptionKey)
	assert.NotEmpty(t, *file.DecryptionKey)
	assert.True(t, file.Decrypted)

	// The stored blob is ciphertext, not the payload.
	stored, err := blobs.Get(ctx, file.StorageLocator)
	require.NoError(t, err)
	assert.NotEqual(t, payload, stored)

	got, gotFile, err := svc.DownloadFile(ctx, 7, file.Slug)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "2023.pdf", gotFile.Name)

	size, err := svc.FileSize(ctx, 7, file.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(len(stored)), size)

	require.NoError(t, svc.DeleteFile(ctx, 7, file.Slug))
	_, _, err = svc.DownloadFile(ctx, 7, file.Slug)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 0, blobs.Len(), "blob removed with the row")
}

func TestUploadFile_PerOwnerSlugScope(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, 1, "Docs")
	require.NoError(t, err)
	folderB, err := svc.CreateFolder(ctx, 2, "Docs")
	require.NoError(t, err)

	// Two different owners both get the clean base slug.
	fileA, err := svc.UploadFile(ctx, 1, "docs", "report", []byte("a"))
	require.NoError(t, err)
	fileB, err := svc.UploadFile(ctx, 2, folderB.Slug, "report", []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, "report", fileA.Slug)
	assert.Equal(t, "report", fileB.Slug)

	// The same owner uploading the same name again gets a suffixed slug.
	fileA2, err := svc.UploadFile(ctx, 1, "docs", "report", []byte("c"))
	require.NoError(t, err)
	assert.NotEqual(t, fileA.Slug, fileA2.Slug)
}

func TestUploadFile_UnknownOrForeignFolder(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, 1, "Private")
	require.NoError(t, err)

	_, err = svc.UploadFile(ctx, 2, "private", "intruder.txt", []byte("x"))
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.UploadFile(ctx, 1, "no-such-folder", "a.txt", []byte("x"))
	require.ErrorIs(t, err, common.ErrNotFound)

	assert.Equal(t, 0, blobs.Len(), "no blob written for rejected uploads")
}

func TestUploadFile_InvalidNameLeavesNoOrphan(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, 1, "Docs")
	require.NoError(t, err)

	_, err = svc.UploadFile(ctx, 1, "docs", "  ", []byte("payload"))
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, blobs.Len())
}

func TestDeleteFolder_CascadesToFilesAndBlobs(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, 1, "Bulk")
	require.NoError(t, err)

	const k = 4
	slugs := make([]string, 0, k)
	for i := 0; i < k; i++ {
		file, err := svc.UploadFile(ctx, 1, "bulk", "item", []byte{byte(i)})
		require.NoError(t, err)
		slugs = append(slugs, file.Slug)
	}
	require.Equal(t, k, blobs.Len())

	deleted, err := svc.DeleteFolder(ctx, 1, "bulk")
	require.NoError(t, err)
	assert.Equal(t, k, deleted)
	assert.Equal(t, 0, blobs.Len(), "all underlying blobs removed")

	for _, slug := range slugs {
		_, _, err := svc.DownloadFile(ctx, 1, slug)
		require.ErrorIs(t, err, common.ErrNotFound)
	}
	_, err = svc.GetFolder(ctx, 1, "bulk")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteFolder_ForeignOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, 1, "Mine")
	require.NoError(t, err)

	_, err = svc.DeleteFolder(ctx, 2, "mine")
	require.ErrorIs(t, err, common.ErrNotFound)

	// Still present for the real owner.
	_, err = svc.GetFolder(ctx, 1, "mine")
	require.NoError(t, err)
}

func TestListFolders_PassesThroughFilterAndSort(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"banana", "Apple", "cherry"} {
		_, err := svc.CreateFolder(ctx, 1, name)
		require.NoError(t, err)
	}

	folders, err := svc.ListFolders(ctx, 1, "", store.SortByName)
	require.NoError(t, err)
	require.Len(t, folders, 3)
	assert.Equal(t, "Apple", folders[0].Name)

	filtered, err := svc.ListFolders(ctx, 1, "an", "")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "banana", filtered[0].Name)
}
