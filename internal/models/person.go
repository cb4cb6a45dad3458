// Package models holds the domain types shared across the ingestion and
// lookup paths.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is a pessoa as stored and served by the API. Field order matches
// the wire contract: apelido is the unique handle, nome the display name,
// nascimento a calendar date, stack a free-form list of tags.
type Record struct {
	ID         string    `json:"id"`
	Apelido    string    `json:"apelido"`
	Nome       string    `json:"nome"`
	Nascimento string    `json:"nascimento"`
	Stack      []string  `json:"stack"`
	CreatedAt  time.Time `json:"-"`
}

// CreateInput is the client-supplied payload for POST /pessoas. It carries
// only the four settable fields; ID and CreatedAt are minted server-side.
type CreateInput struct {
	Apelido    string   `json:"apelido" validate:"required,max=32"`
	Nome       string   `json:"nome" validate:"required,max=100"`
	Nascimento string   `json:"nascimento" validate:"required,bdate"`
	Stack      []string `json:"stack" validate:"omitempty,dive,max=32,nospace"`
}

// NewID mints a CSPRNG-backed identifier. It never returns an error in
// practice (uuid.NewRandom only fails if the system entropy source is
// broken) but the error is surfaced so callers can fail the request instead
// of minting a zero-value ID.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ToRecord builds the persisted/cached Record for a freshly minted ID.
func (in CreateInput) ToRecord(id string, createdAt time.Time) Record {
	stack := in.Stack
	if stack == nil {
		stack = []string{}
	}
	return Record{
		ID:         id,
		Apelido:    in.Apelido,
		Nome:       in.Nome,
		Nascimento: in.Nascimento,
		Stack:      stack,
		CreatedAt:  createdAt,
	}
}

// SearchBlob returns the lower-cased concatenation used for substring
// search and persisted in the store's busca column.
func (r Record) SearchBlob() string {
	var b strings.Builder
	b.WriteString(r.Apelido)
	b.WriteByte(' ')
	b.WriteString(r.Nome)
	b.WriteByte(' ')
	b.WriteString(strings.Join(r.Stack, " "))
	return strings.ToLower(b.String())
}
