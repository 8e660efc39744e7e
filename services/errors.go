package services

import "errors"

// User-input errors. Handlers turn each one into a reply and abort the command.
var (
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrNotRegistered     = errors.New("user not registered")
	ErrDeckNotFound      = errors.New("deck not found")
	ErrDeckExists        = errors.New("deck already exists")
	ErrInvalidResult     = errors.New("invalid match result")
	ErrInvalidSelection  = errors.New("invalid archetype selection")
	ErrArchetypeExists   = errors.New("archetype already exists")
	ErrArchetypeNotFound = errors.New("archetype not found")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrNoKeyCards        = errors.New("at least one key card is required")
)
