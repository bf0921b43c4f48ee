// Package note holds the scouting note aggregate.
package note

import (
	"fmt"
	"strings"
	"time"
)

// Field limits.
const (
	MaxTitleLength   = 500
	MaxContentLength = 50000
	MaxTags          = 20
	MaxTagLength     = 100
)

// Note is a scouting note about a player (immutable value object).
type Note struct {
	id          int64
	playerID    int64
	title       string
	content     string
	tags        []string
	gameDate    string
	isImportant bool
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates and creates a Note. Title and content are required.
// Tags are trimmed and empty entries dropped. gameDate is an opaque
// caller-supplied string, not parsed.
func New(id, playerID int64, title, content string, tags []string, gameDate string, isImportant bool, now time.Time) (Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Note{}, fmt.Errorf("note title is required")
	}
	if len(title) > MaxTitleLength {
		return Note{}, fmt.Errorf("note title too long (max %d)", MaxTitleLength)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Note{}, fmt.Errorf("note content is required")
	}
	if len(content) > MaxContentLength {
		return Note{}, fmt.Errorf("note content too long (max %d bytes)", MaxContentLength)
	}
	if playerID <= 0 {
		return Note{}, fmt.Errorf("player ID is required")
	}

	cleaned, err := normalizeTags(tags)
	if err != nil {
		return Note{}, err
	}

	return Note{
		id:          id,
		playerID:    playerID,
		title:       title,
		content:     content,
		tags:        cleaned,
		gameDate:    strings.TrimSpace(gameDate),
		isImportant: isImportant,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates a Note without validation (storage hydration).
func Reconstruct(
	id, playerID int64, title, content string, tags []string,
	gameDate string, isImportant bool, createdAt, updatedAt time.Time,
) Note {
	return Note{
		id: id, playerID: playerID, title: title, content: content,
		tags: tags, gameDate: gameDate, isImportant: isImportant,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the note identifier.
func (n *Note) ID() int64 { return n.id }

// PlayerID returns the owning player's identifier.
func (n *Note) PlayerID() int64 { return n.playerID }

// Title returns the note title.
func (n *Note) Title() string { return n.title }

// Content returns the note body.
func (n *Note) Content() string { return n.content }

// Tags returns the note tags.
func (n *Note) Tags() []string { return n.tags }

// GameDate returns the opaque game date string ("" if unset).
func (n *Note) GameDate() string { return n.gameDate }

// IsImportant reports whether the note is flagged important.
func (n *Note) IsImportant() bool { return n.isImportant }

// CreatedAt returns the creation timestamp.
func (n *Note) CreatedAt() time.Time { return n.createdAt }

// UpdatedAt returns the last modification timestamp.
func (n *Note) UpdatedAt() time.Time { return n.updatedAt }

// SearchText returns the text submitted for embedding: title, content
// and tags joined with spaces.
func (n *Note) SearchText() string {
	parts := []string{n.title, n.content}
	if len(n.tags) > 0 {
		parts = append(parts, strings.Join(n.tags, " "))
	}
	return strings.Join(parts, " ")
}

// Update describes a partial note modification. Nil fields keep the
// existing values.
type Update struct {
	Title       *string
	Content     *string
	Tags        []string
	GameDate    *string
	IsImportant *bool
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Tags == nil &&
		u.GameDate == nil && u.IsImportant == nil
}

// TouchesText reports whether the update changes the searchable text
// and therefore requires reindexing.
func (u Update) TouchesText() bool {
	return u.Title != nil || u.Content != nil || u.Tags != nil
}

// Apply returns a copy with the update applied and updatedAt bumped.
func (n *Note) Apply(u Update, now time.Time) (Note, error) {
	title := n.title
	if u.Title != nil {
		title = *u.Title
	}
	content := n.content
	if u.Content != nil {
		content = *u.Content
	}
	tags := n.tags
	if u.Tags != nil {
		tags = u.Tags
	}
	gameDate := n.gameDate
	if u.GameDate != nil {
		gameDate = *u.GameDate
	}
	isImportant := n.isImportant
	if u.IsImportant != nil {
		isImportant = *u.IsImportant
	}

	updated, err := New(n.id, n.playerID, title, content, tags, gameDate, isImportant, n.createdAt)
	if err != nil {
		return Note{}, err
	}
	updated.updatedAt = now
	return updated, nil
}

func normalizeTags(tags []string) ([]string, error) {
	if len(tags) > MaxTags {
		return nil, fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if len(tag) > MaxTagLength {
			return nil, fmt.Errorf("tag too long (max %d)", MaxTagLength)
		}
		cleaned = append(cleaned, tag)
	}
	return cleaned, nil
}
