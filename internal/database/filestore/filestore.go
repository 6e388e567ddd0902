// Package filestore persists groups as one JSON document per group under a
// data directory. Writes go to a temp file that is renamed into place.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/repository"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// Store implements repository.Groups and repository.Settings on the filesystem.
type Store struct {
	root string
	mu   sync.Mutex
}

var (
	_ repository.Groups   = (*Store)(nil)
	_ repository.Settings = (*Store)(nil)
)

// New creates the data directory layout under root.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, GroupsDirName), dirPerm); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateDir, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) groupPath(groupID string) (string, error) {
	// ids become file names, so only the validated id alphabet is accepted
	if err := validation.ValidateGroupID(groupID); err != nil {
		return "", err
	}
	return filepath.Join(s.root, GroupsDirName, groupID+GroupFileExt), nil
}

// LoadGroup decodes the group's file.
func (s *Store) LoadGroup(ctx context.Context, groupID string) (*domain.GroupStore, error) {
	path, err := s.groupPath(groupID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadFile, err)
	}
	var g domain.GroupStore
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", ErrMsgFailedToDecodeGroup, groupID, err)
	}
	if g.GroupID == "" {
		g.GroupID = groupID
	}
	return &g, nil
}

// SaveGroup atomically replaces the group's file.
func (s *Store) SaveGroup(ctx context.Context, group *domain.GroupStore) error {
	path, err := s.groupPath(group.GroupID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(group, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeGroup, err)
	}
	return s.writeAtomic(path, data)
}

// DeleteGroup removes the group's file.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) (bool, error) {
	path, err := s.groupPath(groupID)
	if err != nil {
		return false, err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToRemoveFile, err)
	}
	return true, nil
}

// ListGroups returns the ids of every group file, sorted.
func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, GroupsDirName))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDir, err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, GroupFileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, GroupFileExt))
	}
	slices.Sort(ids)
	return ids, nil
}

// LoadSettings reads the settings document.
func (s *Store) LoadSettings(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, SettingsFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadFile, err)
	}
	return data, nil
}

// SaveSettings atomically replaces the settings document.
func (s *Store) SaveSettings(ctx context.Context, document []byte) error {
	return s.writeAtomic(filepath.Join(s.root, SettingsFileName), document)
}

func (s *Store) writeAtomic(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+tempPattern)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteFile, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteFile, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteFile, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteFile, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteFile, err)
	}
	return nil
}
