package services

import "errors"

// Errors shared by the services and mapped to HTTP statuses by the handlers.
var (
	ErrPlayersRequired = errors.New("at least one player name is required")
	ErrTooManyPlayers  = errors.New("too many players")
	ErrDuplicatePlayer = errors.New("player names must be unique")
	ErrInvalidConfig   = errors.New("invalid tournament configuration")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPlayerNotFound     = errors.New("player is not part of this tournament")

	ErrSharingDisabled = errors.New("sharing is not configured on this server")
)
