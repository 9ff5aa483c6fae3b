package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/taskshelf/internal/syncstate"
)

// FolderIdentifier names the folder provider in preference keys.
const FolderIdentifier = "folder"

// FolderFile is the shared task file inside the sync folder.
const FolderFile = "tasks.jsonl"

// TaskStore is the part of the task table the folder provider needs.
type TaskStore interface {
	ExportJSONL(path string) error
	MergeJSONL(path string) (int, error)
}

// FolderProvider mirrors tasks through a JSONL file in a shared folder. The
// folder path is the provider's login token.
type FolderProvider struct {
	store   TaskStore
	tracker *syncstate.Tracker
	log     zerolog.Logger
}

func NewFolderProvider(store TaskStore, tracker *syncstate.Tracker, log zerolog.Logger) *FolderProvider {
	return &FolderProvider{store: store, tracker: tracker, log: log}
}

func (p *FolderProvider) Identifier() string {
	return FolderIdentifier
}

// Synchronize merges newer remote tasks into the local store and then writes
// the merged set back to the folder.
func (p *FolderProvider) Synchronize(ctx context.Context) error {
	folder, ok := p.tracker.Token()
	if !ok || folder == "" {
		return &Error{Type: ErrTypeAuth, Err: ErrNotLoggedIn}
	}
	info, err := os.Stat(folder)
	if err != nil {
		return &Error{Type: ErrTypeIO, Err: err}
	}
	if !info.IsDir() {
		return &Error{Type: ErrTypeIO, Err: fmt.Errorf("%s is not a directory", folder)}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	remote := filepath.Join(folder, FolderFile)
	merged, err := p.store.MergeJSONL(remote)
	if err != nil {
		return &Error{Type: ErrTypeIO, Err: fmt.Errorf("merging %s: %w", remote, err)}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.store.ExportJSONL(remote); err != nil {
		return &Error{Type: ErrTypeIO, Err: fmt.Errorf("exporting %s: %w", remote, err)}
	}

	p.log.Info().Str("folder", folder).Int("merged", merged).Msg("folder synchronized")
	return nil
}
