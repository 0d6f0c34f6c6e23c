package dynamo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jun/noteful/internal/model"
	"github.com/jun/noteful/internal/store"
)

type noteItem struct {
	PK        string    `dynamodbav:"pk"`
	OwnerID   string    `dynamodbav:"owner_id"`
	Title     string    `dynamodbav:"title"`
	Content   string    `dynamodbav:"content"`
	FolderID  string    `dynamodbav:"folder_id"`
	TagIDs    []string  `dynamodbav:"tag_ids"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

func (i *noteItem) toModel() *model.Note {
	return &model.Note{
		ID:        i.PK,
		Title:     i.Title,
		Content:   i.Content,
		FolderID:  i.FolderID,
		Tags:      []model.Tag{},
		OwnerID:   i.OwnerID,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func (i *noteItem) matches(filter store.NoteFilter) bool {
	if filter.SearchTerm != "" &&
		!strings.Contains(strings.ToLower(i.Title), strings.ToLower(filter.SearchTerm)) {
		return false
	}
	if filter.FolderID != "" && i.FolderID != filter.FolderID {
		return false
	}
	if filter.TagID != "" {
		found := false
		for _, id := range i.TagIDs {
			if id == filter.TagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortNotes(notes []model.Note) {
	sort.Slice(notes, func(a, b int) bool {
		if !notes[a].CreatedAt.Equal(notes[b].CreatedAt) {
			return notes[a].CreatedAt.Before(notes[b].CreatedAt)
		}
		return notes[a].ID < notes[b].ID
	})
}

// populateTags resolves tag id references into full tags. References to
// tags that no longer exist are dropped, not errors: notes tolerate
// dangling references.
func (s *Store) populateTags(ctx context.Context, ownerID string, notes []model.Note, tagIDs map[string][]string) error {
	owned, err := s.ListTags(ctx, ownerID)
	if err != nil {
		return err
	}
	byID := make(map[string]model.Tag, len(owned))
	for _, t := range owned {
		byID[t.ID] = t
	}

	for i := range notes {
		tags := []model.Tag{}
		for _, id := range tagIDs[notes[i].ID] {
			if t, ok := byID[id]; ok {
				tags = append(tags, t)
			}
		}
		notes[i].Tags = tags
	}
	return nil
}

func (s *Store) ListNotes(ctx context.Context, ownerID string, filter store.NoteFilter) ([]model.Note, error) {
	var items []noteItem
	if s.client == nil {
		s.mu.RLock()
		for _, item := range s.notes {
			if item.OwnerID == ownerID {
				items = append(items, *item)
			}
		}
		s.mu.RUnlock()
	} else {
		if err := s.scanOwned(ctx, notesTable(), ownerID, &items); err != nil {
			return nil, err
		}
	}

	notes := make([]model.Note, 0, len(items))
	tagIDs := make(map[string][]string, len(items))
	for i := range items {
		if !items[i].matches(filter) {
			continue
		}
		notes = append(notes, *items[i].toModel())
		tagIDs[items[i].PK] = items[i].TagIDs
	}
	sortNotes(notes)

	if err := s.populateTags(ctx, ownerID, notes, tagIDs); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, id, ownerID string) (*model.Note, error) {
	var item noteItem
	if s.client == nil {
		s.mu.RLock()
		stored, ok := s.notes[id]
		if ok {
			item = *stored
		}
		s.mu.RUnlock()
		if !ok || item.OwnerID != ownerID {
			return nil, store.ErrNotFound
		}
	} else {
		if err := s.getByPK(ctx, notesTable(), "pk", id, &item); err != nil {
			return nil, err
		}
		if item.OwnerID != ownerID {
			return nil, store.ErrNotFound
		}
	}

	notes := []model.Note{*item.toModel()}
	if err := s.populateTags(ctx, ownerID, notes, map[string][]string{item.PK: item.TagIDs}); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

func (s *Store) CreateNote(ctx context.Context, ownerID string, change store.NoteChange) (*model.Note, error) {
	now := time.Now().UTC()
	item := &noteItem{
		PK:        newID(),
		OwnerID:   ownerID,
		Title:     change.Title,
		Content:   change.Content,
		FolderID:  change.FolderID,
		TagIDs:    append([]string(nil), change.TagIDs...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.client == nil {
		s.mu.Lock()
		s.notes[item.PK] = item
		s.mu.Unlock()
	} else {
		if err := s.putItem(ctx, notesTable(), item); err != nil {
			return nil, err
		}
	}

	return s.GetNote(ctx, item.PK, ownerID)
}

func (s *Store) UpdateNote(ctx context.Context, id, ownerID string, change store.NoteChange) (*model.Note, error) {
	if s.client == nil {
		s.mu.Lock()
		item, ok := s.notes[id]
		if !ok || item.OwnerID != ownerID {
			s.mu.Unlock()
			return nil, store.ErrNotFound
		}
		item.Title = change.Title
		item.Content = change.Content
		item.FolderID = change.FolderID
		item.TagIDs = append([]string(nil), change.TagIDs...)
		item.UpdatedAt = time.Now().UTC()
		s.mu.Unlock()
		return s.GetNote(ctx, id, ownerID)
	}

	var item noteItem
	if err := s.getByPK(ctx, notesTable(), "pk", id, &item); err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}

	item.Title = change.Title
	item.Content = change.Content
	item.FolderID = change.FolderID
	item.TagIDs = append([]string(nil), change.TagIDs...)
	item.UpdatedAt = time.Now().UTC()

	if err := s.putItem(ctx, notesTable(), &item); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, id, ownerID)
}

func (s *Store) DeleteNote(ctx context.Context, id, ownerID string) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		item, ok := s.notes[id]
		if !ok || item.OwnerID != ownerID {
			return store.ErrNotFound
		}
		delete(s.notes, id)
		return nil
	}

	var item noteItem
	if err := s.getByPK(ctx, notesTable(), "pk", id, &item); err != nil {
		return err
	}
	if item.OwnerID != ownerID {
		return store.ErrNotFound
	}
	return s.deleteByPK(ctx, notesTable(), "pk", id)
}

// DetachFolder clears the folder reference on every owned note pointing at
// folderID. Called before the folder itself is deleted so no note is left
// referencing a dead folder.
func (s *Store) DetachFolder(ctx context.Context, folderID, ownerID string) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, item := range s.notes {
			if item.OwnerID == ownerID && item.FolderID == folderID {
				item.FolderID = ""
			}
		}
		return nil
	}

	var items []noteItem
	if err := s.scanOwned(ctx, notesTable(), ownerID, &items); err != nil {
		return err
	}
	for i := range items {
		if items[i].FolderID != folderID {
			continue
		}
		items[i].FolderID = ""
		if err := s.putItem(ctx, notesTable(), &items[i]); err != nil {
			return err
		}
	}
	return nil
}

// DetachTag removes tagID from every owned note's tag list.
func (s *Store) DetachTag(ctx context.Context, tagID, ownerID string) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, item := range s.notes {
			if item.OwnerID == ownerID {
				item.TagIDs = removeID(item.TagIDs, tagID)
			}
		}
		return nil
	}

	var items []noteItem
	if err := s.scanOwned(ctx, notesTable(), ownerID, &items); err != nil {
		return err
	}
	for i := range items {
		trimmed := removeID(items[i].TagIDs, tagID)
		if len(trimmed) == len(items[i].TagIDs) {
			continue
		}
		items[i].TagIDs = trimmed
		if err := s.putItem(ctx, notesTable(), &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func removeID(ids []string, drop string) []string {
	kept := ids[:0:0]
	for _, id := range ids {
		if id != drop {
			kept = append(kept, id)
		}
	}
	return kept
}
