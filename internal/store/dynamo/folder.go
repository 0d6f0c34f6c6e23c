package dynamo

import (
	"context"
	"sort"

	"github.com/jun/noteful/internal/model"
	"github.com/jun/noteful/internal/store"
)

type folderItem struct {
	PK      string `dynamodbav:"pk"`
	OwnerID string `dynamodbav:"owner_id"`
	Name    string `dynamodbav:"name"`
}

func (i *folderItem) toModel() *model.Folder {
	return &model.Folder{ID: i.PK, Name: i.Name, OwnerID: i.OwnerID}
}

func sortFolders(folders []model.Folder) {
	sort.Slice(folders, func(a, b int) bool {
		if folders[a].Name != folders[b].Name {
			return folders[a].Name < folders[b].Name
		}
		return folders[a].ID < folders[b].ID
	})
}

func (s *Store) ListFolders(ctx context.Context, ownerID string) ([]model.Folder, error) {
	if s.client == nil {
		return s.listFoldersMap(ctx, ownerID)
	}

	var items []folderItem
	if err := s.scanOwned(ctx, foldersTable(), ownerID, &items); err != nil {
		return nil, err
	}

	folders := make([]model.Folder, 0, len(items))
	for i := range items {
		folders = append(folders, *items[i].toModel())
	}
	sortFolders(folders)
	return folders, nil
}

func (s *Store) GetFolder(ctx context.Context, id, ownerID string) (*model.Folder, error) {
	if s.client == nil {
		return s.getFolderMap(ctx, id, ownerID)
	}

	var item folderItem
	if err := s.getByPK(ctx, foldersTable(), "pk", id, &item); err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return item.toModel(), nil
}

func (s *Store) CreateFolder(ctx context.Context, ownerID, name string) (*model.Folder, error) {
	item := &folderItem{PK: newID(), OwnerID: ownerID, Name: name}

	if s.client == nil {
		s.mu.Lock()
		s.folders[item.PK] = item
		s.mu.Unlock()
		return item.toModel(), nil
	}

	if err := s.putItem(ctx, foldersTable(), item); err != nil {
		return nil, err
	}
	return item.toModel(), nil
}

func (s *Store) UpdateFolder(ctx context.Context, id, ownerID, name string) (*model.Folder, error) {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		item, ok := s.folders[id]
		if !ok || item.OwnerID != ownerID {
			return nil, store.ErrNotFound
		}
		item.Name = name
		return item.toModel(), nil
	}

	// Get first so a foreign or missing id surfaces as not found instead
	// of upserting.
	current, err := s.GetFolder(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	item := &folderItem{PK: current.ID, OwnerID: ownerID, Name: name}
	if err := s.putItem(ctx, foldersTable(), item); err != nil {
		return nil, err
	}
	return item.toModel(), nil
}

func (s *Store) DeleteFolder(ctx context.Context, id, ownerID string) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		item, ok := s.folders[id]
		if !ok || item.OwnerID != ownerID {
			return store.ErrNotFound
		}
		delete(s.folders, id)
		return nil
	}

	if _, err := s.GetFolder(ctx, id, ownerID); err != nil {
		return err
	}
	return s.deleteByPK(ctx, foldersTable(), "pk", id)
}

// --- Map implementations (fallback) ---

func (s *Store) listFoldersMap(ctx context.Context, ownerID string) ([]model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folders := make([]model.Folder, 0)
	for _, item := range s.folders {
		if item.OwnerID == ownerID {
			folders = append(folders, *item.toModel())
		}
	}
	sortFolders(folders)
	return folders, nil
}

func (s *Store) getFolderMap(ctx context.Context, id, ownerID string) (*model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.folders[id]
	if !ok || item.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return item.toModel(), nil
}
