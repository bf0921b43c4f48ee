// Package player holds the player aggregate.
package player

import (
	"fmt"
	"strings"
	"time"
)

// Field length limits.
const (
	MaxNameLength     = 200
	MaxTeamLength     = 200
	MaxPositionLength = 50
)

// Player is a scouted player (immutable value object).
type Player struct {
	id        int64
	name      string
	team      string
	position  string
	createdAt time.Time
	updatedAt time.Time
}

// New validates and creates a Player. Name is required; team and
// position are optional.
func New(id int64, name, team, position string, now time.Time) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("player name is required")
	}
	if len(name) > MaxNameLength {
		return Player{}, fmt.Errorf("player name too long (max %d)", MaxNameLength)
	}
	if len(team) > MaxTeamLength {
		return Player{}, fmt.Errorf("team too long (max %d)", MaxTeamLength)
	}
	if len(position) > MaxPositionLength {
		return Player{}, fmt.Errorf("position too long (max %d)", MaxPositionLength)
	}

	return Player{
		id:        id,
		name:      name,
		team:      strings.TrimSpace(team),
		position:  strings.TrimSpace(position),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates a Player without validation (storage hydration).
func Reconstruct(id int64, name, team, position string, createdAt, updatedAt time.Time) Player {
	return Player{
		id: id, name: name, team: team, position: position,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the player identifier.
func (p *Player) ID() int64 { return p.id }

// Name returns the player's full name.
func (p *Player) Name() string { return p.name }

// Team returns the player's team ("" if unknown).
func (p *Player) Team() string { return p.team }

// Position returns the player's position ("" if unknown).
func (p *Player) Position() string { return p.position }

// CreatedAt returns the creation timestamp.
func (p *Player) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last modification timestamp.
func (p *Player) UpdatedAt() time.Time { return p.updatedAt }

// WithUpdates returns a copy with the given fields replaced. Empty
// strings keep the existing values.
func (p *Player) WithUpdates(name, team, position string, now time.Time) (Player, error) {
	if name == "" {
		name = p.name
	}
	if team == "" {
		team = p.team
	}
	if position == "" {
		position = p.position
	}
	updated, err := New(p.id, name, team, position, p.createdAt)
	if err != nil {
		return Player{}, err
	}
	updated.updatedAt = now
	return updated, nil
}
