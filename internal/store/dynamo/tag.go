package dynamo

import (
	"context"
	"sort"

	"github.com/jun/noteful/internal/model"
	"github.com/jun/noteful/internal/store"
)

type tagItem struct {
	PK      string `dynamodbav:"pk"`
	OwnerID string `dynamodbav:"owner_id"`
	Name    string `dynamodbav:"name"`
}

func (i *tagItem) toModel() *model.Tag {
	return &model.Tag{ID: i.PK, Name: i.Name, OwnerID: i.OwnerID}
}

func sortTags(tags []model.Tag) {
	sort.Slice(tags, func(a, b int) bool {
		if tags[a].Name != tags[b].Name {
			return tags[a].Name < tags[b].Name
		}
		return tags[a].ID < tags[b].ID
	})
}

func (s *Store) ListTags(ctx context.Context, ownerID string) ([]model.Tag, error) {
	if s.client == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.listTagsLocked(ownerID), nil
	}

	var items []tagItem
	if err := s.scanOwned(ctx, tagsTable(), ownerID, &items); err != nil {
		return nil, err
	}

	tags := make([]model.Tag, 0, len(items))
	for i := range items {
		tags = append(tags, *items[i].toModel())
	}
	sortTags(tags)
	return tags, nil
}

func (s *Store) listTagsLocked(ownerID string) []model.Tag {
	tags := make([]model.Tag, 0)
	for _, item := range s.tags {
		if item.OwnerID == ownerID {
			tags = append(tags, *item.toModel())
		}
	}
	sortTags(tags)
	return tags
}

func (s *Store) GetTag(ctx context.Context, id, ownerID string) (*model.Tag, error) {
	if s.client == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		item, ok := s.tags[id]
		if !ok || item.OwnerID != ownerID {
			return nil, store.ErrNotFound
		}
		return item.toModel(), nil
	}

	var item tagItem
	if err := s.getByPK(ctx, tagsTable(), "pk", id, &item); err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return item.toModel(), nil
}

// tagNameTaken reports whether another of the owner's tags already uses
// name. The (name, owner) pair is the uniqueness unit; the same name under
// a different owner is fine.
func (s *Store) tagNameTaken(ctx context.Context, ownerID, name, excludeID string) (bool, error) {
	var tags []model.Tag
	if s.client == nil {
		s.mu.RLock()
		tags = s.listTagsLocked(ownerID)
		s.mu.RUnlock()
	} else {
		var err error
		tags, err = s.ListTags(ctx, ownerID)
		if err != nil {
			return false, err
		}
	}

	for _, t := range tags {
		if t.Name == name && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateTag(ctx context.Context, ownerID, name string) (*model.Tag, error) {
	taken, err := s.tagNameTaken(ctx, ownerID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, store.ErrConflict
	}

	item := &tagItem{PK: newID(), OwnerID: ownerID, Name: name}

	if s.client == nil {
		s.mu.Lock()
		s.tags[item.PK] = item
		s.mu.Unlock()
		return item.toModel(), nil
	}

	if err := s.putItem(ctx, tagsTable(), item); err != nil {
		return nil, err
	}
	return item.toModel(), nil
}

func (s *Store) UpdateTag(ctx context.Context, id, ownerID, name string) (*model.Tag, error) {
	taken, err := s.tagNameTaken(ctx, ownerID, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, store.ErrConflict
	}

	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		item, ok := s.tags[id]
		if !ok || item.OwnerID != ownerID {
			return nil, store.ErrNotFound
		}
		item.Name = name
		return item.toModel(), nil
	}

	current, err := s.GetTag(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	item := &tagItem{PK: current.ID, OwnerID: ownerID, Name: name}
	if err := s.putItem(ctx, tagsTable(), item); err != nil {
		return nil, err
	}
	return item.toModel(), nil
}

func (s *Store) DeleteTag(ctx context.Context, id, ownerID string) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		item, ok := s.tags[id]
		if !ok || item.OwnerID != ownerID {
			return store.ErrNotFound
		}
		delete(s.tags, id)
		return nil
	}

	if _, err := s.GetTag(ctx, id, ownerID); err != nil {
		return err
	}
	return s.deleteByPK(ctx, tagsTable(), "pk", id)
}
