package model

import "time"

// Folder groups notes. Every folder belongs to exactly one user.
type Folder struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"-"`
}

// Tag labels notes. Tag names are unique per owner.
type Tag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"-"`
}

// Note is the central entity. FolderID and Tags are weak references:
// a note may outlive the folder or tags it points at.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	FolderID  string    `json:"folderId,omitempty"`
	Tags      []Tag     `json:"tags"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is the identity that owns folders, notes and tags.
// The password hash is never serialized to JSON.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname,omitempty"`
	PasswordHash string `json:"-"`
}
